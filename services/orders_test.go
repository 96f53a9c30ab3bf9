package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"storefront/database"
	"storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusPending, models.StatusPreparing, true},
		{models.StatusPending, models.StatusReady, true},
		{models.StatusPreparing, models.StatusReady, true},
		{models.StatusPreparing, models.StatusPending, false},
		{models.StatusReady, models.StatusPending, false},
		{models.StatusReady, models.StatusPreparing, false},
		{models.StatusPending, models.StatusPending, false},
		{models.StatusPending, "shipped", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
	assert.Empty(t, AvailableTransitions(models.StatusReady))
	assert.NotNil(t, AvailableTransitions(models.StatusReady))
}

func TestGroupOrders_OldestFirstPerStatus(t *testing.T) {
	t0 := fixedNow
	orders := []models.Order{
		{ID: "c", Status: models.StatusPending, CreatedAt: t0.Add(2 * time.Minute)},
		{ID: "a", Status: models.StatusPending, CreatedAt: t0},
		{ID: "r", Status: models.StatusReady, CreatedAt: t0},
		{ID: "b", Status: models.StatusPending, CreatedAt: t0.Add(time.Minute)},
	}

	b := GroupOrders(orders)
	assert.Equal(t, []string{"a", "b", "c"}, orderIDs(b.Pending))
	assert.Empty(t, b.Preparing)
	assert.Equal(t, []string{"r"}, orderIDs(b.Ready))
}

func TestOrderBoard_PendingToReadyIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.addOrder(t, models.StatusPending, fixedNow)

	n, err := f.orders.Transition(ctx, id, models.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, n.Order.Status)

	u, err := url.Parse(n.WhatsAppURL)
	require.NoError(t, err)
	assert.Equal(t, "/258841234567", u.Path)
	assert.Contains(t, u.Query().Get("text"), "está pronto!")
	assert.Contains(t, u.Query().Get("text"), "856727539")

	order, err := f.orders.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, order.Status)
	assert.Empty(t, AvailableTransitions(order.Status))

	for _, to := range []models.OrderStatus{models.StatusPending, models.StatusPreparing} {
		_, err := f.orders.Transition(ctx, id, to)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestOrderBoard_PreparingNotification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.addOrder(t, models.StatusPending, fixedNow)

	n, err := f.orders.Transition(ctx, id, models.StatusPreparing)
	require.NoError(t, err)

	u, err := url.Parse(n.WhatsAppURL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "em preparação")
}

func TestOrderBoard_TransitionErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.addOrder(t, models.StatusPending, fixedNow)

	_, err := f.orders.Transition(ctx, id, "shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = f.orders.Transition(ctx, "missing", models.StatusReady)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestOrderBoard_DeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.addOrder(t, models.StatusReady, fixedNow)

	assert.ErrorIs(t, f.orders.Delete(ctx, id, false), ErrConfirmationRequired)
	_, err := f.orders.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.orders.Delete(ctx, id, true))
	_, err = f.orders.Get(ctx, id)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestOrderBoard_Subscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	feed, err := f.orders.Subscribe(ctx)
	require.NoError(t, err)
	defer feed.Close()

	board := nextValue(t, feed)
	assert.Empty(t, board.Pending)

	id := f.addOrder(t, models.StatusPending, fixedNow)
	board = nextValue(t, feed)
	assert.Equal(t, []string{id}, orderIDs(board.Pending))

	_, err = f.orders.Transition(ctx, id, models.StatusPreparing)
	require.NoError(t, err)
	board = nextValue(t, feed)
	assert.Empty(t, board.Pending)
	assert.Equal(t, []string{id}, orderIDs(board.Preparing))
}

func nextValue[T any](t *testing.T, feed *Feed[T]) T {
	t.Helper()
	select {
	case v, ok := <-feed.C():
		require.True(t, ok, "feed closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("no value from feed")
	}
	var zero T
	return zero
}

func orderIDs(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
