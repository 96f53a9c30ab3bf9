package cart

import (
	"context"
	"testing"

	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	water = models.Product{ID: "p1", Name: "Água", Price: 50, Category: "Águas", IsAvailable: true}
	juice = models.Product{
		ID: "p2", Name: "Sumo", Price: 100, Category: "Sumos", IsAvailable: true,
		Variations: []models.Variation{{Name: "500ml", Price: 100}, {Name: "1L", Price: 180}},
	}
)

func openEmpty(t *testing.T) (*Holder, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	return Open(context.Background(), storage, "session-1", zap.NewNop()), storage
}

func TestHolder_AddTwiceIncrementsOneLine(t *testing.T) {
	ctx := context.Background()
	h, _ := openEmpty(t)

	require.NoError(t, h.Add(ctx, water, nil))
	require.NoError(t, h.Add(ctx, water, nil))

	items := h.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 100.0, h.TotalPrice())
	assert.Equal(t, 2, h.TotalItems())
}

func TestHolder_VariationsAreSeparateLines(t *testing.T) {
	ctx := context.Background()
	h, _ := openEmpty(t)

	small, _ := juice.Variation("500ml")
	large, _ := juice.Variation("1L")
	require.NoError(t, h.Add(ctx, juice, &small))
	require.NoError(t, h.Add(ctx, juice, &large))
	require.NoError(t, h.Add(ctx, juice, &small))

	items := h.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p2_500ml", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 100.0, items[0].Price)
	assert.Equal(t, "p2_1L", items[1].ID)
	assert.Equal(t, 180.0, items[1].Price)
	assert.Equal(t, "1L", items[1].VariationName())
	assert.Equal(t, 380.0, h.TotalPrice())
}

func TestHolder_TotalsExample(t *testing.T) {
	ctx := context.Background()
	h, _ := openEmpty(t)

	a := models.Product{ID: "a", Name: "A", Price: 100, IsAvailable: true}
	b := models.Product{
		ID: "b", Name: "B", Price: 120, IsAvailable: true,
		Variations: []models.Variation{{Name: "Small", Price: 120}, {Name: "Large", Price: 150}},
	}
	large, _ := b.Variation("Large")

	require.NoError(t, h.Add(ctx, a, nil))
	require.NoError(t, h.Add(ctx, a, nil))
	require.NoError(t, h.Add(ctx, b, &large))

	assert.Equal(t, 350.0, h.TotalPrice())
	assert.Equal(t, 3, h.TotalItems())
}

func TestHolder_VariationChecks(t *testing.T) {
	ctx := context.Background()
	h, _ := openEmpty(t)

	assert.ErrorIs(t, h.Add(ctx, juice, nil), ErrVariationRequired)
	assert.ErrorIs(t, h.Add(ctx, juice, &models.Variation{Name: "2L", Price: 1}), ErrUnknownVariation)

	// The catalog price wins over whatever the caller sent.
	require.NoError(t, h.Add(ctx, juice, &models.Variation{Name: "1L", Price: 1}))
	require.Len(t, h.Items(), 1)
	assert.Equal(t, 180.0, h.Items()[0].Price)
}

func TestHolder_UpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	h, _ := openEmpty(t)

	require.NoError(t, h.Add(ctx, water, nil))
	require.NoError(t, h.UpdateQuantity(ctx, "p1", 0))
	assert.Empty(t, h.Items())

	require.NoError(t, h.Add(ctx, water, nil))
	require.NoError(t, h.UpdateQuantity(ctx, "p1", -3))
	assert.Empty(t, h.Items())
}

func TestHolder_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	h, _ := openEmpty(t)

	small, _ := juice.Variation("500ml")
	require.NoError(t, h.Add(ctx, water, nil))
	require.NoError(t, h.Add(ctx, juice, &small))

	require.NoError(t, h.Remove(ctx, "p1"))
	require.Len(t, h.Items(), 1)
	assert.Equal(t, "p2_500ml", h.Items()[0].ID)

	require.NoError(t, h.Remove(ctx, "missing"))
	require.Len(t, h.Items(), 1)

	require.NoError(t, h.Clear(ctx))
	assert.Empty(t, h.Items())
	assert.Zero(t, h.TotalPrice())
	assert.Zero(t, h.TotalItems())
}

func TestOpen_RestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	h, storage := openEmpty(t)

	small, _ := juice.Variation("500ml")
	require.NoError(t, h.Add(ctx, juice, &small))
	require.NoError(t, h.Add(ctx, water, nil))

	restored := Open(ctx, storage, "session-1", zap.NewNop())
	assert.Equal(t, h.Items(), restored.Items())

	other := Open(ctx, storage, "session-2", zap.NewNop())
	assert.Empty(t, other.Items())
}

func TestOpen_CorruptDataYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, "s", []byte("{not json")))

	h := Open(ctx, storage, "s", zap.NewNop())
	assert.Empty(t, h.Items())

	require.NoError(t, h.Add(ctx, water, nil))
	assert.Len(t, Open(ctx, storage, "s", zap.NewNop()).Items(), 1)
}
