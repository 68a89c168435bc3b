package uievents

import "sync/atomic"

// CancelFlag is a process-wide cooperative cancellation flag, set once by
// an interrupt handler and polled from Handler.IsCancelled implementations
// at the documented suspension points.
type CancelFlag struct {
	flag atomic.Bool
}

// Cancel marks the flag set. Safe to call more than once or concurrently.
func (c *CancelFlag) Cancel() {
	c.flag.Store(true)
}

// IsSet reports whether Cancel has been called.
func (c *CancelFlag) IsSet() bool {
	return c.flag.Load()
}
