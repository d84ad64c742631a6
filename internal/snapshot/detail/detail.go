// Package detail implements the node/constructor deep-dive supplemental
// feature: given a node id or constructor name, it reports aggregate
// statistics, a paginated list of matching nodes, and — for a specific
// node id — its retainers, outgoing edges, and a self-size histogram.
package detail

import (
	"fmt"
	"sort"

	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

// NodeRef is a lightweight reference to one matching node.
type NodeRef struct {
	Index    int
	Id       int64
	NodeType string
	SelfSize int64
}

// NameStats is the aggregate over every node sharing one constructor
// name, plus a [Skip, Skip+len(Ids)) page of matches.
type NameStats struct {
	Name         string
	TotalCount   int64
	SelfSizeSum  int64
	MaxSelfSize  int64
	MinSelfSize  int64
	AvgSelfSize  float64
	Ids          []NodeRef
	Skip         int
	Limit        int
	TotalIds     int64
}

// RetainerSummary is one retainer of a target node.
type RetainerSummary struct {
	FromIndex    int
	FromId       int64
	FromName     string
	FromNodeType string
	FromSelfSize int64
	EdgeIndex    int
	EdgeType     string
	EdgeName     string
}

// OutgoingEdgeSummary is one outgoing edge of a target node.
type OutgoingEdgeSummary struct {
	EdgeIndex  int
	EdgeType   string
	EdgeName   string
	ToIndex    int
	ToId       int64
	ToName     string
	ToNodeType string
	ToSelfSize int64
}

// ShallowSizeBucket is one fixed self-size histogram bucket.
type ShallowSizeBucket struct {
	Label string
	Min   int64
	Max   *int64 // nil means unbounded above
	Count int64
}

// defaultBuckets is the self-size histogram boundary set, taken verbatim
// from the constructor deep-dive feature this kernel is grounded on, so
// that the same boundaries a user might already know from that tool
// carry over.
var defaultBuckets = []struct {
	min int64
	max *int64
}{
	{0, ptr(0)},
	{1, ptr(31)},
	{32, ptr(127)},
	{128, ptr(511)},
	{512, ptr(2047)},
	{2048, ptr(8191)},
	{8192, ptr(32767)},
	{32768, nil},
}

func ptr(v int64) *int64 { return &v }

// ByName is the result when detail is requested by constructor name.
type ByName struct {
	Stats NameStats
}

// ById is the result when detail is requested by node id.
type ById struct {
	NodeIndex               int
	Id                      int64
	Name                    string
	NodeType                string
	SelfSize                int64
	Stats                   NameStats
	Retainers               []RetainerSummary
	OutgoingEdges           []OutgoingEdgeSummary
	ShallowSizeDistribution []ShallowSizeBucket
}

// ByIdQuery finds the node with the given id, then builds the full
// detail report: constructor-level stats, top retainers, top outgoing
// edges, and the self-size histogram across every node sharing its name.
func ByIdQuery(raw *model.SnapshotRaw, id int64, skip, limit, topRetainers, topEdges int) (*ById, error) {
	index, err := findById(raw, id)
	if err != nil {
		return nil, err
	}
	node := model.NodeView{Raw: raw, Index: index}
	name := node.Name()

	stats := collectNameStats(raw, name, skip, limit)
	retainers := topRetainersOf(raw, index, topRetainers)
	outgoing := topOutgoingEdgesOf(raw, index, topEdges)
	dist := shallowSizeDistribution(raw, name)

	return &ById{
		NodeIndex:               index,
		Id:                      id,
		Name:                    name,
		NodeType:                node.TypeName(),
		SelfSize:                node.SelfSize(),
		Stats:                   stats,
		Retainers:               retainers,
		OutgoingEdges:           outgoing,
		ShallowSizeDistribution: dist,
	}, nil
}

// ByNameQuery builds the constructor-level report for an exact name
// match, without the per-node retainer/edge drill-down ById provides.
func ByNameQuery(raw *model.SnapshotRaw, name string, skip, limit int) (*ByName, error) {
	stats := collectNameStats(raw, name, skip, limit)
	if stats.TotalCount == 0 {
		return nil, &snaperr.TargetNotFound{Query: name}
	}
	return &ByName{Stats: stats}, nil
}

func findById(raw *model.SnapshotRaw, id int64) (int, error) {
	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		if (model.NodeView{Raw: raw, Index: i}).Id() == id {
			return i, nil
		}
	}
	return 0, &snaperr.TargetNotFound{Query: fmt.Sprintf("id %d", id)}
}

func collectNameStats(raw *model.SnapshotRaw, targetName string, skip, limit int) NameStats {
	var totalCount int64
	var selfSizeSum int64
	maxSelfSize := int64(-1 << 63)
	minSelfSize := int64(1<<63 - 1)
	var ids []NodeRef

	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		node := model.NodeView{Raw: raw, Index: i}
		if node.Name() != targetName {
			continue
		}
		totalCount++
		size := node.SelfSize()
		selfSizeSum += size
		if size > maxSelfSize {
			maxSelfSize = size
		}
		if size < minSelfSize {
			minSelfSize = size
		}
		if int(totalCount) > skip && len(ids) < limit {
			ids = append(ids, NodeRef{Index: i, Id: node.Id(), NodeType: node.TypeName(), SelfSize: size})
		}
	}

	if totalCount == 0 {
		return NameStats{Name: targetName, Skip: skip, Limit: limit}
	}

	return NameStats{
		Name:        targetName,
		TotalCount:  totalCount,
		SelfSizeSum: selfSizeSum,
		MaxSelfSize: maxSelfSize,
		MinSelfSize: minSelfSize,
		AvgSelfSize: float64(selfSizeSum) / float64(totalCount),
		Ids:         ids,
		Skip:        skip,
		Limit:       limit,
		TotalIds:    totalCount,
	}
}

func topRetainersOf(raw *model.SnapshotRaw, target int, limit int) []RetainerSummary {
	var items []RetainerSummary
	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		start, end := raw.EdgeRange(i)
		for e := start; e < end; e++ {
			edge := model.EdgeView{Raw: raw, Index: e}
			if edge.ToNodeIndex() != target {
				continue
			}
			from := model.NodeView{Raw: raw, Index: i}
			items = append(items, RetainerSummary{
				FromIndex:    i,
				FromId:       from.Id(),
				FromName:     from.Name(),
				FromNodeType: from.TypeName(),
				FromSelfSize: from.SelfSize(),
				EdgeIndex:    e,
				EdgeType:     edge.TypeName(),
				EdgeName:     edge.ResolvedName(),
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].FromSelfSize != items[j].FromSelfSize {
			return items[i].FromSelfSize > items[j].FromSelfSize
		}
		return items[i].FromIndex < items[j].FromIndex
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func topOutgoingEdgesOf(raw *model.SnapshotRaw, index int, limit int) []OutgoingEdgeSummary {
	var items []OutgoingEdgeSummary
	start, end := raw.EdgeRange(index)
	for e := start; e < end; e++ {
		edge := model.EdgeView{Raw: raw, Index: e}
		to := edge.ToNodeIndex()
		toNode := model.NodeView{Raw: raw, Index: to}
		items = append(items, OutgoingEdgeSummary{
			EdgeIndex:  e,
			EdgeType:   edge.TypeName(),
			EdgeName:   edge.ResolvedName(),
			ToIndex:    to,
			ToId:       toNode.Id(),
			ToName:     toNode.Name(),
			ToNodeType: toNode.TypeName(),
			ToSelfSize: toNode.SelfSize(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ToSelfSize != items[j].ToSelfSize {
			return items[i].ToSelfSize > items[j].ToSelfSize
		}
		return items[i].EdgeIndex < items[j].EdgeIndex
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func shallowSizeDistribution(raw *model.SnapshotRaw, targetName string) []ShallowSizeBucket {
	buckets := make([]ShallowSizeBucket, len(defaultBuckets))
	for i, b := range defaultBuckets {
		buckets[i] = ShallowSizeBucket{Label: bucketLabel(b.min, b.max), Min: b.min, Max: b.max}
	}

	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		node := model.NodeView{Raw: raw, Index: i}
		if node.Name() != targetName {
			continue
		}
		size := node.SelfSize()
		for bi := range buckets {
			inRange := size >= buckets[bi].Min && (buckets[bi].Max == nil || size <= *buckets[bi].Max)
			if inRange {
				buckets[bi].Count++
				break
			}
		}
	}
	return buckets
}

func bucketLabel(min int64, max *int64) string {
	if max == nil {
		return fmt.Sprintf("%d+", min)
	}
	return fmt.Sprintf("%d-%d", min, *max)
}
