// Package toggle implements a one-shot, single-producer multi-consumer signal.
//
// A Sender flips the toggle at most once; any number of Receivers observe it.
// Once fired the toggle stays fired, and every pending or future Wait returns
// immediately. There is no reset.
package toggle

import (
	"context"
	"sync"
	"sync/atomic"
)

// state is shared by one Sender and all Receivers cloned from the same origin.
type state struct {
	fired atomic.Bool
	once  sync.Once
	done  chan struct{}
}

// Sender flips the toggle.
type Sender struct {
	state *state
}

// Receiver observes the toggle. The zero value is not usable; obtain
// receivers from New or Clone.
type Receiver struct {
	state *state
}

// New creates a toggle and returns its sender and a first receiver.
func New() (*Sender, Receiver) {
	s := &state{done: make(chan struct{})}

	return &Sender{state: s}, Receiver{state: s}
}

// Fire sets the toggle and wakes every waiter. Calling it more than once is
// a no-op.
func (s *Sender) Fire() {
	s.state.once.Do(func() {
		s.state.fired.Store(true)
		close(s.state.done)
	})
}

// IsSet reports whether the toggle has been fired.
func (r Receiver) IsSet() bool {
	return r.state.fired.Load()
}

// Clone returns another receiver sharing the same toggle.
func (r Receiver) Clone() Receiver {
	return Receiver{state: r.state}
}

// Done returns a channel that is closed once the toggle fires.
func (r Receiver) Done() <-chan struct{} {
	return r.state.done
}

// Wait blocks until the toggle fires or ctx is done.
// It returns nil when fired, otherwise ctx.Err().
func (r Receiver) Wait(ctx context.Context) error {
	if r.IsSet() {
		return nil
	}

	select {
	case <-r.state.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
