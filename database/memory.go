package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is a process-local Store used for development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.M
	watchers    map[string]map[chan struct{}]struct{}

	// FailWrites, when set, is returned by every write.
	FailWrites error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]bson.M),
		watchers:    make(map[string]map[chan struct{}]struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyM(doc)}, nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data any) (string, error) {
	id := primitive.NewObjectID().Hex()
	if err := s.Set(ctx, collection, id, data, false); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data any, merge bool) error {
	m, err := toM(data)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	coll := s.collection(collection)
	if existing, ok := coll[id]; ok && merge {
		for k, v := range m {
			existing[k] = v
		}
	} else {
		coll[id] = m
	}
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields bson.M) error {
	m, err := toM(fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	existing, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range m {
		existing[k] = v
	}
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q Query) ([]Document, error) {
	where := make([]Filter, 0, len(q.Where))
	for _, f := range q.Where {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Collection, err)
		}
		where = append(where, Filter{Field: f.Field, Value: v})
	}

	s.mu.RLock()
	var docs []Document
	for id, data := range s.collections[q.Collection] {
		if q.ID != "" && id != q.ID {
			continue
		}
		if matches(data, where) {
			docs = append(docs, Document{ID: id, Data: copyM(data)})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if c != 0 {
				if q.Descending {
					return c > 0
				}
				return c < 0
			}
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, q Query) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	changed := s.watch(q.Collection)

	return newSubscription(ctx, cancel, func(ctx context.Context, emit emitFunc) error {
		defer s.unwatch(q.Collection, changed)

		for {
			docs, err := s.Query(ctx, q)
			if err != nil {
				return err
			}
			if !emit(Snapshot{Documents: docs, ReadAt: time.Now()}) {
				return nil
			}

			select {
			case <-ctx.Done():
				return nil
			case <-changed:
			}
		}
	}), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) collection(name string) map[string]bson.M {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]bson.M)
		s.collections[name] = coll
	}
	return coll
}

func (s *MemoryStore) watch(collection string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[chan struct{}]struct{})
	}
	s.watchers[collection][ch] = struct{}{}
	return ch
}

func (s *MemoryStore) unwatch(collection string, ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[collection], ch)
}

// notify must be called with s.mu held. Pending signals coalesce.
func (s *MemoryStore) notify(collection string) {
	for ch := range s.watchers[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func copyM(m bson.M) bson.M {
	out, err := toM(m)
	if err != nil {
		out = make(bson.M, len(m))
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func normalizeValue(v any) (any, error) {
	m, err := toM(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func matches(data bson.M, where []Filter) bool {
	for _, f := range where {
		v, ok := data[f.Field]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(v, f.Value) && compareValues(v, f.Value) != 0 {
			return false
		}
	}
	return true
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}

	return compareStrings(fmt.Sprint(a), fmt.Sprint(b))
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	case time.Time:
		return float64(n.UnixMilli()), true
	}
	return 0, false
}
