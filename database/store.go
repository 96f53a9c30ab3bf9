package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductsCollection      = "products"
	OrdersCollection        = "orders"
	ConfigCollection        = "config"
	RevokedTokensCollection = "revoked_tokens"

	ContactDocument  = "contact"
	HomepageDocument = "homepage"
)

var ErrNotFound = errors.New("document not found")

// Document is a stored document with its storage-assigned identifier
// split out of the field set.
type Document struct {
	ID   string
	Data bson.M
}

// Decode unmarshals the document fields into v.
func (d Document) Decode(v any) error {
	raw, err := bson.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

type Filter struct {
	Field string
	Value any
}

// Query selects documents of one collection. A non-empty ID restricts the
// query to that single document.
type Query struct {
	Collection string
	ID         string
	Where      []Filter
	OrderBy    string
	Descending bool
}

func (q Query) Eq(field string, value any) Query {
	q.Where = append(append([]Filter(nil), q.Where...), Filter{Field: field, Value: value})
	return q
}

func (q Query) Sort(field string, descending bool) Query {
	q.OrderBy = field
	q.Descending = descending
	return q
}

func Collection(name string) Query {
	return Query{Collection: name}
}

func Doc(collection, id string) Query {
	return Query{Collection: collection, ID: id}
}

// Snapshot is the full result set of a query at one point in time.
type Snapshot struct {
	Documents []Document
	ReadAt    time.Time
}

// Store is the document persistence boundary.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Add(ctx context.Context, collection string, data any) (string, error)
	// Set writes a document under id, creating it when absent. With merge
	// only the given top-level fields are replaced.
	Set(ctx context.Context, collection, id string, data any, merge bool) error
	// Update replaces the given top-level fields of an existing document.
	Update(ctx context.Context, collection, id string, fields bson.M) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, q Query) ([]Document, error)
	Subscribe(ctx context.Context, q Query) (*Subscription, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func toM(data any) (bson.M, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "_id")
	return m, nil
}

func toDocument(raw bson.M) Document {
	var id string
	switch v := raw["_id"].(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	case nil:
	default:
		id = fmt.Sprint(v)
	}
	delete(raw, "_id")
	return Document{ID: id, Data: raw}
}
