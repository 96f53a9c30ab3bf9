package services

import "storefront/database"

// Feed is a typed view over a database subscription.
type Feed[T any] struct {
	c    chan T
	sub  *database.Subscription
	done chan struct{}
}

func newFeed[T any](sub *database.Subscription, decode func(database.Snapshot) T) *Feed[T] {
	f := &Feed[T]{c: make(chan T), sub: sub, done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer close(f.c)

		for snap := range sub.Snapshots() {
			select {
			case f.c <- decode(snap):
			case <-sub.Done():
				return
			}
		}
	}()

	return f
}

// C delivers one value per snapshot and is closed when the feed ends.
func (f *Feed[T]) C() <-chan T {
	return f.c
}

// Close tears down the underlying listener and waits for it.
func (f *Feed[T]) Close() {
	f.sub.Cancel()
	<-f.done
}

func (f *Feed[T]) Err() error {
	return f.sub.Err()
}
