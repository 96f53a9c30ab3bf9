package services

import (
	"context"
	"fmt"
	"time"

	"storefront/database"
	"storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name        string             `json:"name" validate:"min=3"`
	Price       float64            `json:"price" validate:"gte=0"`
	Category    string             `json:"category" validate:"min=3"`
	ImageURL    string             `json:"imageUrl" validate:"required"`
	IsAvailable *bool              `json:"isAvailable"`
	Variations  []models.Variation `json:"variations"`
}

// ProductPatch updates only the non-nil fields.
type ProductPatch struct {
	Name        *string             `json:"name" validate:"omitempty,min=3"`
	Price       *float64            `json:"price" validate:"omitempty,gte=0"`
	Category    *string             `json:"category" validate:"omitempty,min=3"`
	ImageURL    *string             `json:"imageUrl" validate:"omitempty,min=1"`
	IsAvailable *bool               `json:"isAvailable"`
	Variations  *[]models.Variation `json:"variations"`
}

var productMessages = map[string]string{
	"name":     "O nome deve ter pelo menos 3 caracteres.",
	"price":    "O preço deve ser um número positivo.",
	"category": "A categoria é obrigatória.",
	"imageUrl": "A imagem do produto é obrigatória.",
}

type CatalogService struct {
	store database.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewCatalogService(store database.Store, log *zap.Logger) *CatalogService {
	return &CatalogService{store: store, log: log, now: time.Now}
}

func availableProducts() database.Query {
	return database.Collection(database.ProductsCollection).Eq("isAvailable", true).Sort("name", false)
}

func allProducts() database.Query {
	return database.Collection(database.ProductsCollection).Sort("name", false)
}

// ListAvailable is the storefront listing: available products by name.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, availableProducts())
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, allProducts())
}

func (s *CatalogService) list(ctx context.Context, q database.Query) ([]models.Product, error) {
	docs, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.decodeProducts(docs), nil
}

func (s *CatalogService) decodeProducts(docs []database.Document) []models.Product {
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := models.DecodeProduct(doc.ID, doc.Data)
		if err != nil {
			s.log.Warn("skipping malformed product", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products
}

func (s *CatalogService) Get(ctx context.Context, id string) (models.Product, error) {
	doc, err := s.store.Get(ctx, database.ProductsCollection, id)
	if err != nil {
		return models.Product{}, err
	}
	return models.DecodeProduct(doc.ID, doc.Data)
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	p := models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Variations:  in.Variations,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if p.Variations == nil {
		p.Variations = []models.Variation{}
	}

	id, err := s.store.Add(ctx, database.ProductsCollection, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	if err := check(patch, productMessages); err != nil {
		return models.Product{}, err
	}

	fields := bson.M{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.ImageURL != nil {
		fields["imageUrl"] = *patch.ImageURL
	}
	if patch.IsAvailable != nil {
		fields["isAvailable"] = *patch.IsAvailable
	}
	if patch.Variations != nil {
		if err := checkVariationNames(*patch.Variations); err != nil {
			return models.Product{}, err
		}
		vs := *patch.Variations
		if vs == nil {
			vs = []models.Variation{}
		}
		fields["variations"] = vs
	}
	fields["updatedAt"] = s.now().UTC()

	if err := s.store.Update(ctx, database.ProductsCollection, id, fields); err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, database.ProductsCollection, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// ToggleAvailability flips the availability flag and returns the product
// as stored afterwards.
func (s *CatalogService) ToggleAvailability(ctx context.Context, id string) (models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("toggle availability %s: %w", id, err)
	}
	available := !p.IsAvailable
	return s.Update(ctx, id, ProductPatch{IsAvailable: &available})
}

// Subscribe streams the product list, ordered by name, every time the
// catalog changes.
func (s *CatalogService) Subscribe(ctx context.Context, availableOnly bool) (*Feed[[]models.Product], error) {
	q := allProducts()
	if availableOnly {
		q = availableProducts()
	}
	sub, err := s.store.Subscribe(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("subscribe products: %w", err)
	}
	return newFeed(sub, func(snap database.Snapshot) []models.Product {
		return s.decodeProducts(snap.Documents)
	}), nil
}

func validateProduct(in ProductInput) error {
	if err := check(in, productMessages); err != nil {
		return err
	}
	return checkVariationNames(in.Variations)
}

func checkVariationNames(vs []models.Variation) error {
	verr := &ValidationError{}
	seen := make(map[string]bool, len(vs))
	for i, v := range vs {
		field := fmt.Sprintf("variations[%d].name", i)
		switch {
		case v.Name == "":
			verr.add(field, "O nome da variação é obrigatório.")
		case seen[v.Name]:
			verr.add(field, "O nome da variação deve ser único.")
		}
		if v.Price < 0 {
			verr.add(fmt.Sprintf("variations[%d].price", i), "O preço deve ser um número positivo.")
		}
		seen[v.Name] = true
	}
	return verr.orNil()
}
