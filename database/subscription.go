package database

import "context"

// Subscription pushes a fresh Snapshot every time the watched documents
// change. Snapshots of one subscription arrive in the order the store
// applied the writes; intermediate states may be coalesced.
type Subscription struct {
	snapshots chan Snapshot
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

type emitFunc func(Snapshot) bool

func newSubscription(ctx context.Context, cancel context.CancelFunc, run func(ctx context.Context, emit emitFunc) error) *Subscription {
	s := &Subscription{
		snapshots: make(chan Snapshot),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.snapshots)

		err := run(ctx, func(snap Snapshot) bool {
			select {
			case s.snapshots <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			s.err = err
		}
	}()

	return s
}

// Snapshots is closed once the subscription ends.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Done is closed as soon as Cancel is called or the parent context ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Cancel stops the subscription and waits for its listener to exit.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Err reports why the subscription ended on its own. It is nil while the
// subscription is running and after a plain Cancel.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}
