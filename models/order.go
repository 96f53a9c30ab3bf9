package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of a cart line taken at submission time. It is
// never refreshed from the catalog.
type OrderItem struct {
	ProductID     string  `bson:"id" json:"id"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	VariationName string  `bson:"variationName,omitempty" json:"variationName,omitempty"`
}

type Order struct {
	ID              string      `bson:"-" json:"id"`
	OrderID         string      `bson:"orderId" json:"orderId"`
	CustomerName    string      `bson:"customerName" json:"customerName"`
	Phone           string      `bson:"phone" json:"phone"`
	DeliveryAddress string      `bson:"deliveryAddress" json:"deliveryAddress"`
	Items           []OrderItem `bson:"items" json:"items"`
	Total           float64     `bson:"total" json:"total"`
	Status          OrderStatus `bson:"status" json:"status"`
	CreatedAt       time.Time   `bson:"createdAt" json:"createdAt"`
}

func DecodeOrder(id string, data bson.M) (Order, error) {
	var o Order
	if err := decode(data, &o); err != nil {
		return Order{}, err
	}
	o.ID = id
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
	return o, nil
}

// ShortID is the prefix of the storage id quoted to customers.
func (o Order) ShortID() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[:6]
}
