package services

import (
	"context"
	"fmt"
	"sort"

	"storefront/database"
	"storefront/messaging"
	"storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var validTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:   {models.StatusPreparing, models.StatusReady},
	models.StatusPreparing: {models.StatusReady},
	models.StatusReady:     {},
}

// AvailableTransitions lists the statuses an order in status may move to.
func AvailableTransitions(status models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus{}, validTransitions[status]...)
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Board groups orders by status, oldest first within each group.
type Board struct {
	Pending   []models.Order `json:"pending"`
	Preparing []models.Order `json:"preparing"`
	Ready     []models.Order `json:"ready"`
}

func GroupOrders(orders []models.Order) Board {
	sorted := append([]models.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	b := Board{
		Pending:   []models.Order{},
		Preparing: []models.Order{},
		Ready:     []models.Order{},
	}
	for _, o := range sorted {
		switch o.Status {
		case models.StatusPending:
			b.Pending = append(b.Pending, o)
		case models.StatusPreparing:
			b.Preparing = append(b.Preparing, o)
		case models.StatusReady:
			b.Ready = append(b.Ready, o)
		}
	}
	return b
}

// Notification is the customer message prepared after a status change.
type Notification struct {
	Order       models.Order `json:"order"`
	WhatsAppURL string       `json:"whatsappUrl,omitempty"`
}

type OrderBoard struct {
	store         database.Store
	formatter     *messaging.Formatter
	countryPrefix string
	log           *zap.Logger
}

func NewOrderBoard(store database.Store, formatter *messaging.Formatter, countryPrefix string, log *zap.Logger) *OrderBoard {
	return &OrderBoard{store: store, formatter: formatter, countryPrefix: countryPrefix, log: log}
}

func ordersQuery() database.Query {
	return database.Collection(database.OrdersCollection).Sort("createdAt", false)
}

func (b *OrderBoard) Board(ctx context.Context) (Board, error) {
	docs, err := b.store.Query(ctx, ordersQuery())
	if err != nil {
		return Board{}, fmt.Errorf("list orders: %w", err)
	}
	return GroupOrders(b.decodeOrders(docs)), nil
}

func (b *OrderBoard) Get(ctx context.Context, id string) (models.Order, error) {
	doc, err := b.store.Get(ctx, database.OrdersCollection, id)
	if err != nil {
		return models.Order{}, err
	}
	return models.DecodeOrder(doc.ID, doc.Data)
}

// Transition moves an order along the status machine and prepares the
// customer notification for the new status.
func (b *OrderBoard) Transition(ctx context.Context, id string, to models.OrderStatus) (*Notification, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}

	order, err := b.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transition order %s: %w", id, err)
	}
	if !CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, to)
	}

	if err := b.store.Update(ctx, database.OrdersCollection, id, bson.M{"status": to}); err != nil {
		b.log.Error("order status not updated", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("transition order %s: %w", id, err)
	}
	order.Status = to

	n := &Notification{Order: order}
	if text, ok := b.formatter.StatusMessage(order, to); ok {
		if phone := messaging.NormalizePhone(order.Phone, b.countryPrefix); phone != "" {
			n.WhatsAppURL = messaging.Link(phone, text)
		}
	}

	b.log.Info("order status changed", zap.String("id", id), zap.String("status", string(to)))
	return n, nil
}

// Delete removes an order for good. confirmed must be true.
func (b *OrderBoard) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := b.store.Delete(ctx, database.OrdersCollection, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	b.log.Info("order deleted", zap.String("id", id))
	return nil
}

func (b *OrderBoard) Subscribe(ctx context.Context) (*Feed[Board], error) {
	sub, err := b.store.Subscribe(ctx, ordersQuery())
	if err != nil {
		return nil, fmt.Errorf("subscribe orders: %w", err)
	}
	return newFeed(sub, func(snap database.Snapshot) Board {
		return GroupOrders(b.decodeOrders(snap.Documents))
	}), nil
}

func (b *OrderBoard) decodeOrders(docs []database.Document) []models.Order {
	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		o, err := models.DecodeOrder(doc.ID, doc.Data)
		if err != nil {
			b.log.Warn("skipping malformed order", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	return orders
}
