// Package constructor builds and queries the constructor-name index: a
// mapping from a node's resolved "name" field to the ordered list of node
// indices sharing that name.
package constructor

import (
	"strings"

	"github.com/kavanlund/heapsnap/internal/snapshot/model"
)

// Index maps constructor name to the list of node indices sharing it, in
// original node order. Built by a single linear pass; the caller is
// expected to cache it for the session's lifetime (see session.LazyCache).
type Index struct {
	byName map[string][]int
	order  []string // first-seen order, for deterministic iteration
}

// Build performs the single linear pass over raw's nodes.
func Build(raw *model.SnapshotRaw) *Index {
	idx := &Index{byName: make(map[string][]int)}
	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		name := (model.NodeView{Raw: raw, Index: i}).Name()
		if _, seen := idx.byName[name]; !seen {
			idx.order = append(idx.order, name)
		}
		idx.byName[name] = append(idx.byName[name], i)
	}
	return idx
}

// Lookup returns the node indices for an exact constructor name.
func (idx *Index) Lookup(name string) []int {
	return idx.byName[name]
}

// Names returns every distinct constructor name, in first-seen order.
func (idx *Index) Names() []string {
	return idx.order
}

// NamesContaining returns every distinct constructor name containing sub
// as a case-sensitive substring, in first-seen order. An empty sub
// matches every name.
func (idx *Index) NamesContaining(sub string) []string {
	if sub == "" {
		return idx.Names()
	}
	var out []string
	for _, n := range idx.order {
		if strings.Contains(n, sub) {
			out = append(out, n)
		}
	}
	return out
}
