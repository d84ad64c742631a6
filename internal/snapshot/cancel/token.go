// Package cancel provides the shared cancellation flag polled by every
// long-running loop in the snapshot engine.
package cancel

import "sync/atomic"

// Token is a cheap, copyable-by-pointer cancellation flag. An external
// signal handler calls Cancel; the core polls Cancelled at well-defined
// boundaries (record boundaries, BFS layers, dominator iterations, summary
// chunks).
type Token struct {
	flag atomic.Bool
}

// New returns a fresh, uncancelled token.
func New() *Token {
	return &Token{}
}

// Cancel sets the flag. Safe to call from a signal handler.
func (t *Token) Cancel() {
	if t == nil {
		return
	}
	t.flag.Store(true)
}

// Cancelled reports whether Cancel has been called. A nil token is never
// cancelled, so callers may pass nil when cancellation isn't wired up.
func (t *Token) Cancelled() bool {
	return t != nil && t.flag.Load()
}
