// Package session owns a SnapshotRaw for the lifetime of one invocation
// and serializes construction of the lazy caches built on top of it
// (constructor index, reverse adjacency, dominator map), per the shared
// resource policy in spec §5: at most one builder per cache runs, and
// other callers wait for its result.
package session

import (
	"log/slog"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/constructor"
	"github.com/kavanlund/heapsnap/internal/snapshot/dominator"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/progress"
	"github.com/kavanlund/heapsnap/internal/snapshot/retainers"
)

func defaultLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// Session wraps one immutable SnapshotRaw and the lazy structures built
// on top of it.
type Session struct {
	Raw    *model.SnapshotRaw
	Cancel *cancel.Token
	Logger *slog.Logger

	constructorIdx LazyCache[*constructor.Index]
	reverseAdj     LazyCache[map[int][]retainers.Link]
	dominatorMap   LazyCache[*dominator.Map]

	root      retainers.Root
	rootKnown bool
}

// New wraps an already-parsed, already-bound, already-validated raw
// snapshot. logger defaults to slog.Default() when nil.
func New(raw *model.SnapshotRaw, tok *cancel.Token, logger *slog.Logger) *Session {
	return &Session{Raw: raw, Cancel: tok, Logger: defaultLogger(logger)}
}

// Root returns the canonical BFS/dominator root, computed once and
// cached (root selection is a cheap linear scan, but callers should still
// see a stable result within one session).
func (s *Session) Root() retainers.Root {
	if !s.rootKnown {
		s.root = retainers.FindRoot(s.Raw)
		s.rootKnown = true
	}
	return s.root
}

// ConstructorIndex builds (once) or returns the cached constructor-name
// index.
func (s *Session) ConstructorIndex() (*constructor.Index, error) {
	return s.constructorIdx.Get(func() (*constructor.Index, error) {
		return constructor.Build(s.Raw), nil
	})
}

// ReverseAdjacency builds (once) or returns the cached full reverse
// adjacency map.
func (s *Session) ReverseAdjacency(sink progress.Sink) (map[int][]retainers.Link, error) {
	return s.reverseAdj.Get(func() (map[int][]retainers.Link, error) {
		return retainers.BuildReverseAdjacency(s.Raw, s.Cancel, sink, s.Logger)
	})
}

// DominatorMap builds (once) or returns the cached immediate-dominator
// map rooted at Root().
func (s *Session) DominatorMap() (*dominator.Map, error) {
	return s.dominatorMap.Get(func() (*dominator.Map, error) {
		return dominator.Build(s.Raw, s.Root().Index, s.Cancel, s.Logger)
	})
}
