package retainers

import "github.com/kavanlund/heapsnap/internal/snapshot/model"

const gcRootsName = "GC roots"

// Root is the canonical BFS root: the lowest-index node named "GC roots",
// or a synthetic fallback to node 0 when no such node exists.
type Root struct {
	Index     int
	Synthetic bool
}

// FindRoot implements the root-selection rule from spec §4.7: the node
// whose resolved name equals "GC roots" with the lowest index wins; if
// none match, fall back to index 0 and mark the result synthetic.
func FindRoot(raw *model.SnapshotRaw) Root {
	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		if (model.NodeView{Raw: raw, Index: i}).Name() == gcRootsName {
			return Root{Index: i}
		}
	}
	return Root{Index: 0, Synthetic: true}
}
