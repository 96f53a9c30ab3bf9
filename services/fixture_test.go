package services

import (
	"context"
	"testing"
	"time"

	"storefront/cart"
	"storefront/database"
	"storefront/messaging"
	"storefront/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store    *database.MemoryStore
	carts    *cart.MemoryStorage
	catalog  *CatalogService
	config   *SiteConfigService
	checkout *CheckoutService
	orders   *OrderBoard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zap.NewNop()
	store := database.NewMemoryStore()
	formatter := messaging.NewFormatter(messaging.Settings{
		ShopName: "Drink It",
		BaseURL:  "https://shop.example",
		Location: time.UTC,
		PaymentContacts: []messaging.PaymentContact{
			{Number: "856727539", Name: "Caixa"},
		},
	})

	f := &fixture{
		store:   store,
		carts:   cart.NewMemoryStorage(),
		catalog: NewCatalogService(store, log),
		config:  NewSiteConfigService(store, log, "", messaging.DefaultCountryPrefix),
		orders:  NewOrderBoard(store, formatter, messaging.DefaultCountryPrefix, log),
	}
	f.catalog.now = func() time.Time { return fixedNow }
	f.checkout = NewCheckoutService(store, f.config, formatter, messaging.DefaultCountryPrefix, log)
	f.checkout.now = func() time.Time { return fixedNow }
	f.checkout.newCode = func() string { return "pedido-abc123" }
	return f
}

func (f *fixture) openCart(t *testing.T) *cart.Holder {
	t.Helper()
	return cart.Open(context.Background(), f.carts, "session", zap.NewNop())
}

func (f *fixture) createProduct(t *testing.T, in ProductInput) models.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func (f *fixture) addOrder(t *testing.T, status models.OrderStatus, createdAt time.Time) string {
	t.Helper()
	id, err := f.store.Add(context.Background(), database.OrdersCollection, models.Order{
		OrderID:      "pedido-x",
		CustomerName: "Ana",
		Phone:        "258841234567",
		Items:        []models.OrderItem{{ProductID: "p", Quantity: 1, Name: "Água", Price: 50}},
		Total:        50,
		Status:       status,
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)
	return id
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func boolPtr(b bool) *bool { return &b }
