package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/cart"
	"storefront/database"
	"storefront/messaging"
	"storefront/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerDetails struct {
	FullName        string `json:"fullName" validate:"min=3"`
	Phone           string `json:"phone" validate:"min=9"`
	DeliveryAddress string `json:"deliveryAddress" validate:"min=10"`
}

var customerMessages = map[string]string{
	"fullName":        "Nome completo é obrigatório.",
	"phone":           "Telefone inválido.",
	"deliveryAddress": "Endereço de entrega é obrigatório.",
}

// Receipt is the outcome of a successful submission: the stored order and
// the WhatsApp link that hands it to the shop.
type Receipt struct {
	Order       models.Order `json:"order"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

type CheckoutService struct {
	store         database.Store
	config        *SiteConfigService
	formatter     *messaging.Formatter
	countryPrefix string
	log           *zap.Logger

	now     func() time.Time
	newCode func() string
}

func NewCheckoutService(store database.Store, config *SiteConfigService, formatter *messaging.Formatter, countryPrefix string, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		store:         store,
		config:        config,
		formatter:     formatter,
		countryPrefix: countryPrefix,
		log:           log,
		now:           time.Now,
		newCode:       newOrderCode,
	}
}

func newOrderCode() string {
	return "pedido-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// Submit stores an order built from the cart and clears the cart. Nothing
// is cleared and no link is produced when the order cannot be stored.
func (s *CheckoutService) Submit(ctx context.Context, c *cart.Holder, details CustomerDetails) (*Receipt, error) {
	details.FullName = strings.TrimSpace(details.FullName)
	details.Phone = strings.TrimSpace(details.Phone)
	details.DeliveryAddress = strings.TrimSpace(details.DeliveryAddress)
	if err := check(details, customerMessages); err != nil {
		return nil, err
	}

	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	businessPhone, err := s.config.BusinessPhone(ctx)
	if err != nil {
		return nil, err
	}

	total := c.TotalPrice()
	order := models.Order{
		OrderID:         s.newCode(),
		CustomerName:    details.FullName,
		Phone:           messaging.NormalizePhone(details.Phone, s.countryPrefix),
		DeliveryAddress: details.DeliveryAddress,
		Items:           snapshotItems(items),
		Total:           total,
		Status:          models.StatusPending,
		CreatedAt:       s.now().UTC().Truncate(time.Millisecond),
	}

	id, err := s.store.Add(ctx, database.OrdersCollection, order)
	if err != nil {
		s.log.Error("order not stored", zap.String("orderId", order.OrderID), zap.Error(err))
		return nil, fmt.Errorf("store order: %w", err)
	}
	order.ID = id

	text := s.formatter.OrderMessage(order.OrderID, order.CreatedAt, messaging.Customer{
		FullName:        order.CustomerName,
		Phone:           order.Phone,
		DeliveryAddress: order.DeliveryAddress,
	}, items, total)

	if err := c.Clear(ctx); err != nil {
		s.log.Warn("order stored but cart not cleared", zap.String("orderId", order.OrderID), zap.Error(err))
	}

	s.log.Info("order submitted",
		zap.String("id", order.ID),
		zap.String("orderId", order.OrderID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))

	return &Receipt{Order: order, WhatsAppURL: messaging.Link(businessPhone, text)}, nil
}

func snapshotItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItem{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Name:          it.Name,
			Price:         it.Price,
			VariationName: it.VariationName(),
		})
	}
	return out
}
