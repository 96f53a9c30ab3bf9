package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type widget struct {
	Name  string  `bson:"name"`
	Price float64 `bson:"price"`
	On    bool    `bson:"on"`
}

func TestMemoryStore_AddGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Add(ctx, "widgets", widget{Name: "gear", Price: 10, On: true})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, "widgets", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	var w widget
	require.NoError(t, doc.Decode(&w))
	assert.Equal(t, widget{Name: "gear", Price: 10, On: true}, w)

	require.NoError(t, s.Delete(ctx, "widgets", id))
	_, err = s.Get(ctx, "widgets", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "widgets", id), ErrNotFound)
}

func TestMemoryStore_SetMerge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "config", "homepage", bson.M{"slogan": "a", "heroImageUrl": "x"}, false))
	require.NoError(t, s.Set(ctx, "config", "homepage", bson.M{"slogan": "b"}, true))

	doc, err := s.Get(ctx, "config", "homepage")
	require.NoError(t, err)
	assert.Equal(t, "b", doc.Data["slogan"])
	assert.Equal(t, "x", doc.Data["heroImageUrl"])

	require.NoError(t, s.Set(ctx, "config", "homepage", bson.M{"slogan": "c"}, false))
	doc, err = s.Get(ctx, "config", "homepage")
	require.NoError(t, err)
	assert.Equal(t, bson.M{"slogan": "c"}, doc.Data)
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "widgets", "nope", bson.M{"on": false})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "widgets", "a", widget{Name: "gear"}, false))

	doc, err := s.Get(ctx, "widgets", "a")
	require.NoError(t, err)
	doc.Data["name"] = "changed"

	doc, err = s.Get(ctx, "widgets", "a")
	require.NoError(t, err)
	assert.Equal(t, "gear", doc.Data["name"])
}

func TestMemoryStore_QueryFilterAndSort(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for id, w := range map[string]widget{
		"1": {Name: "cog", Price: 3, On: true},
		"2": {Name: "axle", Price: 7, On: true},
		"3": {Name: "bolt", Price: 1, On: false},
	} {
		require.NoError(t, s.Set(ctx, "widgets", id, w, false))
	}
	require.NoError(t, s.Set(ctx, "widgets", "4", bson.M{"name": "dial"}, false))

	docs, err := s.Query(ctx, Collection("widgets").Eq("on", true).Sort("name", false))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2", docs[0].ID)
	assert.Equal(t, "1", docs[1].ID)

	docs, err = s.Query(ctx, Collection("widgets").Sort("price", true))
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(docs))

	docs, err = s.Query(ctx, Doc("widgets", "3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(docs))
}

func TestMemoryStore_FailWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("offline")
	s.FailWrites = boom

	_, err := s.Add(ctx, "widgets", widget{Name: "gear"})
	assert.ErrorIs(t, err, boom)

	docs, err := s.Query(ctx, Collection("widgets"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemoryStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sub, err := s.Subscribe(ctx, Collection("widgets").Sort("name", false))
	require.NoError(t, err)
	defer sub.Cancel()

	first := nextSnapshot(t, sub)
	assert.Empty(t, first.Documents)

	require.NoError(t, s.Set(ctx, "widgets", "a", widget{Name: "gear"}, false))
	snap := nextSnapshot(t, sub)
	assert.Equal(t, []string{"a"}, ids(snap.Documents))

	require.NoError(t, s.Delete(ctx, "widgets", "a"))
	snap = nextSnapshot(t, sub)
	assert.Empty(t, snap.Documents)
}

func TestMemoryStore_SubscribeIgnoresOtherCollections(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sub, err := s.Subscribe(ctx, Collection("widgets"))
	require.NoError(t, err)
	defer sub.Cancel()
	nextSnapshot(t, sub)

	require.NoError(t, s.Set(ctx, "gadgets", "a", widget{Name: "gear"}, false))

	select {
	case snap := <-sub.Snapshots():
		t.Fatalf("unexpected snapshot %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscription_CancelEndsListener(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore()

	sub, err := s.Subscribe(ctx, Collection("widgets"))
	require.NoError(t, err)
	nextSnapshot(t, sub)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription did not observe parent cancellation")
	}
	sub.Cancel()

	_, open := <-sub.Snapshots()
	assert.False(t, open)
	assert.NoError(t, sub.Err())
}

func nextSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
	}
	return Snapshot{}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}
