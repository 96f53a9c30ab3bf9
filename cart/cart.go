// Package cart holds a shopper's cart for one session. The cart never
// touches the document store: its only durability is the session Storage.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/models"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	ErrVariationRequired = errors.New("product has variations; choose one")
	ErrUnknownVariation  = errors.New("variation does not belong to product")
)

// Holder owns the cart lines of one session and persists the full cart to
// its Storage after every mutation.
type Holder struct {
	mu      sync.Mutex
	storage Storage
	key     string
	items   []models.CartItem
	log     *zap.Logger
}

// Open restores the cart stored under key. Unreadable or malformed data
// yields an empty cart.
func Open(ctx context.Context, storage Storage, key string, log *zap.Logger) *Holder {
	h := &Holder{storage: storage, key: key, items: []models.CartItem{}, log: log}

	raw, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNoCart):
		return h
	case err != nil:
		log.Warn("cart load failed, starting empty", zap.String("session", key), zap.Error(err))
		return h
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Debug("cart data unreadable, starting empty", zap.String("session", key), zap.Error(err))
		return h
	}
	for _, it := range items {
		if it.ID != "" && it.Quantity > 0 {
			h.items = append(h.items, it)
		}
	}
	return h
}

func (h *Holder) Key() string {
	return h.key
}

// Items returns a copy of the cart lines in insertion order.
func (h *Holder) Items() []models.CartItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.CartItem(nil), h.items...)
}

// Add increments the line for product+variation, or inserts it at
// quantity 1. A product with variations can only be added through one of
// them.
func (h *Holder) Add(ctx context.Context, p models.Product, v *models.Variation) error {
	if v == nil && p.HasVariations() {
		return ErrVariationRequired
	}
	if v != nil {
		known, ok := p.Variation(v.Name)
		if !ok {
			return ErrUnknownVariation
		}
		v = &known
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := models.CartItemKey(p.ID, v)
	for i := range h.items {
		if h.items[i].ID == id {
			h.items[i].Quantity++
			return h.persist(ctx)
		}
	}

	h.items = append(h.items, models.CartItem{
		ID:        id,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.PriceFor(v),
		ImageURL:  p.ImageURL,
		Category:  p.Category,
		Variation: v,
		Quantity:  1,
	})
	return h.persist(ctx)
}

// UpdateQuantity sets the quantity of a line; n <= 0 removes it.
func (h *Holder) UpdateQuantity(ctx context.Context, itemID string, n int) error {
	if n <= 0 {
		return h.Remove(ctx, itemID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.items {
		if h.items[i].ID == itemID {
			h.items[i].Quantity = n
		}
	}
	return h.persist(ctx)
}

func (h *Holder) Remove(ctx context.Context, itemID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.items[:0]
	for _, it := range h.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	h.items = kept
	return h.persist(ctx)
}

func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = []models.CartItem{}
	return h.persist(ctx)
}

func (h *Holder) TotalPrice() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var total float64
	for _, it := range h.items {
		total += it.Subtotal()
	}
	return total
}

func (h *Holder) TotalItems() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	var n int
	for _, it := range h.items {
		n += it.Quantity
	}
	return n
}

// persist must be called with h.mu held.
func (h *Holder) persist(ctx context.Context) error {
	raw, err := json.Marshal(h.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := h.storage.Save(ctx, h.key, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
