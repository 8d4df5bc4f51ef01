package runner

import "sync"

// CancelToken is a shared set-once cancellation flag. Any worker can trip it
// on failure; the producer and the other workers observe it to stop early.
// Cancellation is eventually consistent: observers may keep running briefly
// after the flag is set, which is acceptable because the goal is to stop
// promptly, not atomically.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken creates a token for a single run
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel trips the token. Safe to call concurrently and more than once.
func (t *CancelToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether the token has been tripped. Never blocks.
func (t *CancelToken) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the token is tripped, for select loops.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
