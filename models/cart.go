package models

// CartItem is one cart line. ID is the identity key: the product id, with
// the variation name appended when a variation was chosen.
type CartItem struct {
	ID        string     `json:"id"`
	ProductID string     `json:"productId"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	ImageURL  string     `json:"imageUrl"`
	Category  string     `json:"category"`
	Variation *Variation `json:"variation,omitempty"`
	Quantity  int        `json:"quantity"`
}

func CartItemKey(productID string, v *Variation) string {
	if v == nil {
		return productID
	}
	return productID + "_" + v.Name
}

func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

func (i CartItem) VariationName() string {
	if i.Variation == nil {
		return ""
	}
	return i.Variation.Name
}
