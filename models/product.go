package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type Variation struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

type Product struct {
	ID          string      `bson:"-" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Price       float64     `bson:"price" json:"price"`
	Variations  []Variation `bson:"variations" json:"variations"`
	ImageURL    string      `bson:"imageUrl" json:"imageUrl"`
	Category    string      `bson:"category" json:"category"`
	IsAvailable bool        `bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time   `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time   `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// productDocument mirrors Product with the optional fields left nullable so
// absent values can be told apart from zero values.
type productDocument struct {
	Name        string      `bson:"name"`
	Price       float64     `bson:"price"`
	Variations  []Variation `bson:"variations"`
	ImageURL    string      `bson:"imageUrl"`
	Category    string      `bson:"category"`
	IsAvailable *bool       `bson:"isAvailable"`
	CreatedAt   time.Time   `bson:"createdAt"`
	UpdatedAt   time.Time   `bson:"updatedAt"`
}

// DecodeProduct reads a product document. A missing availability flag
// means available, missing variations mean none.
func DecodeProduct(id string, data bson.M) (Product, error) {
	var doc productDocument
	if err := decode(data, &doc); err != nil {
		return Product{}, err
	}

	p := Product{
		ID:          id,
		Name:        doc.Name,
		Price:       doc.Price,
		Variations:  doc.Variations,
		ImageURL:    doc.ImageURL,
		Category:    doc.Category,
		IsAvailable: true,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if doc.IsAvailable != nil {
		p.IsAvailable = *doc.IsAvailable
	}
	if p.Variations == nil {
		p.Variations = []Variation{}
	}
	return p, nil
}

func (p Product) HasVariations() bool {
	return len(p.Variations) > 0
}

func (p Product) Variation(name string) (Variation, bool) {
	for _, v := range p.Variations {
		if v.Name == name {
			return v, true
		}
	}
	return Variation{}, false
}

// PriceFor returns the selectable price: the variation price when one is
// chosen, the base price otherwise.
func (p Product) PriceFor(v *Variation) float64 {
	if v != nil {
		return v.Price
	}
	return p.Price
}

func decode(data bson.M, v any) error {
	raw, err := bson.Marshal(data)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}
