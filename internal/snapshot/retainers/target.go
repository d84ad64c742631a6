package retainers

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

const idScanCancelStride = 1 << 16

// ResolveByID performs the single-pass, cancellable linear scan of node id
// fields spec §4.7 requires — no prebuilt id→index map.
func ResolveByID(raw *model.SnapshotRaw, id int64, tok *cancel.Token) (int, error) {
	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		if i > 0 && i%idScanCancelStride == 0 && tok.Cancelled() {
			return 0, &snaperr.Cancelled{Op: "target id scan"}
		}
		if (model.NodeView{Raw: raw, Index: i}).Id() == id {
			return i, nil
		}
	}
	return 0, &snaperr.TargetNotFound{Query: strconv.FormatInt(id, 10)}
}

// PickPolicy disambiguates among constructor-name groups when more than
// one group matches a name filter.
type PickPolicy string

const (
	PickNone    PickPolicy = ""
	PickLargest PickPolicy = "largest"
	PickCount   PickPolicy = "count"
)

type nameGroup struct {
	name             string
	count            int
	selfSizeSum      int64
	largestSelfSize  int64
	largestNodeIndex int
}

// ResolveByName matches constructor names by case-sensitive substring
// (an empty filter matches every name). If exactly one distinct name
// matches, it is selected outright,
// resolving the one node with the largest self_size as the default
// tie-break. If more than one distinct name matches, pick disambiguates
// between names; PickNone with more than one match is an AmbiguousTarget.
func ResolveByName(raw *model.SnapshotRaw, nameFilter string, pick PickPolicy) (int, error) {
	groups := make(map[string]*nameGroup)
	var order []string

	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		node := model.NodeView{Raw: raw, Index: i}
		name := node.Name()
		if !strings.Contains(name, nameFilter) {
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &nameGroup{name: name, largestSelfSize: -1}
			groups[name] = g
			order = append(order, name)
		}
		g.count++
		size := node.SelfSize()
		g.selfSizeSum += size
		if size > g.largestSelfSize {
			g.largestSelfSize = size
			g.largestNodeIndex = i
		}
	}

	if len(order) == 0 {
		return 0, &snaperr.TargetNotFound{Query: nameFilter, Candidates: nearestCandidates(raw, nameFilter)}
	}

	if len(order) == 1 {
		return groups[order[0]].largestNodeIndex, nil
	}

	if pick == PickNone {
		return 0, &snaperr.AmbiguousTarget{Query: nameFilter, Count: len(order)}
	}

	items := make([]*nameGroup, 0, len(order))
	for _, name := range order {
		items = append(items, groups[name])
	}
	sort.SliceStable(items, func(i, j int) bool {
		switch pick {
		case PickCount:
			if items[i].count != items[j].count {
				return items[i].count > items[j].count
			}
			if items[i].selfSizeSum != items[j].selfSizeSum {
				return items[i].selfSizeSum > items[j].selfSizeSum
			}
		default: // PickLargest
			if items[i].selfSizeSum != items[j].selfSizeSum {
				return items[i].selfSizeSum > items[j].selfSizeSum
			}
			if items[i].count != items[j].count {
				return items[i].count > items[j].count
			}
		}
		return items[i].name < items[j].name
	})

	return items[0].largestNodeIndex, nil
}

// nearestCandidates returns up to 10 constructor names for the
// TargetNotFound hint, drawn from names that contain any non-trivial
// prefix of the filter, falling back to the first 10 distinct names in
// the snapshot when the filter shares nothing with any of them.
func nearestCandidates(raw *model.SnapshotRaw, nameFilter string) []string {
	// Every prefix of two or more runes contains the two-rune prefix, so
	// matching that one is enough.
	prefix := []rune(nameFilter)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	seen := make(map[string]bool)
	var out, near []string
	count := raw.NodeCount()
	for i := 0; i < count && len(near) < 10; i++ {
		name := (model.NodeView{Raw: raw, Index: i}).Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		if len(out) < 10 {
			out = append(out, name)
		}
		if len(prefix) > 0 && strings.Contains(name, string(prefix)) {
			near = append(near, name)
		}
	}
	if len(near) > 0 {
		return near
	}
	return out
}
