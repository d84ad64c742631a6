package model

import "github.com/kavanlund/heapsnap/internal/snapshot/snaperr"

// SnapshotRaw owns the three flat sequences the parser produced, plus the
// bound meta and the derived edge-range table. It is constructed once per
// invocation and never mutated afterward; every NodeView/EdgeView and
// every lazy cache observes it read-only.
type SnapshotRaw struct {
	Nodes   []int64
	Edges   []int64
	Strings []string
	Meta    *BoundMeta

	edgeStart []int64 // len = NodeCount+1, prefix sum of edge_count
}

// NodeCount is len(Nodes)/NodeWidth.
func (s *SnapshotRaw) NodeCount() int {
	if s.Meta.NodeWidth == 0 {
		return 0
	}
	return len(s.Nodes) / s.Meta.NodeWidth
}

// EdgeCount is len(Edges)/EdgeWidth.
func (s *SnapshotRaw) EdgeCount() int {
	if s.Meta.EdgeWidth == 0 {
		return 0
	}
	return len(s.Edges) / s.Meta.EdgeWidth
}

// Validate checks the structural invariants from the data model: record
// framing, edge range total, string reference safety, and to_node safety.
// It is expected to run once right after BuildEdgeRangeTable.
func (s *SnapshotRaw) Validate() error {
	if s.Meta.NodeWidth > 0 && len(s.Nodes)%s.Meta.NodeWidth != 0 {
		return &snaperr.MalformedJson{Offset: -1, Key: "nodes", Err: errRecordFraming("nodes", len(s.Nodes), s.Meta.NodeWidth)}
	}
	if s.Meta.EdgeWidth > 0 && len(s.Edges)%s.Meta.EdgeWidth != 0 {
		return &snaperr.MalformedJson{Offset: -1, Key: "edges", Err: errRecordFraming("edges", len(s.Edges), s.Meta.EdgeWidth)}
	}

	nodeCount := s.NodeCount()
	for i := 0; i < nodeCount; i++ {
		base := i * s.Meta.NodeWidth
		nameRef := s.Nodes[base+s.Meta.NodeNameIdx]
		if nameRef < 0 || int(nameRef) >= len(s.Strings) {
			return &snaperr.IndexOutOfRange{Kind: "string", Value: nameRef, Limit: int64(len(s.Strings))}
		}
	}

	edgeCount := s.EdgeCount()
	for i := 0; i < edgeCount; i++ {
		base := i * s.Meta.EdgeWidth
		toNode := s.Edges[base+s.Meta.EdgeToNodeIdx]
		if toNode < 0 || s.Meta.NodeWidth == 0 || toNode%int64(s.Meta.NodeWidth) != 0 || toNode >= int64(len(s.Nodes)) {
			return &snaperr.IndexOutOfRange{Kind: "to_node", Value: toNode, Limit: int64(len(s.Nodes))}
		}
	}

	if s.edgeStart != nil {
		total := s.edgeStart[nodeCount]
		if total != int64(edgeCount) {
			return &snaperr.MalformedJson{Offset: -1, Key: "nodes", Err: errEdgeRangeTotal(total, edgeCount)}
		}
	}

	return nil
}

// BuildEdgeRangeTable computes edge_start(i) for every node by a single
// prefix scan of edge_count, required because the wire format lists edges
// in node order without per-node offsets.
func (s *SnapshotRaw) BuildEdgeRangeTable() {
	nodeCount := s.NodeCount()
	s.edgeStart = make([]int64, nodeCount+1)
	var acc int64
	for i := 0; i < nodeCount; i++ {
		s.edgeStart[i] = acc
		base := i * s.Meta.NodeWidth
		acc += s.Nodes[base+s.Meta.NodeEdgeCountIdx]
	}
	s.edgeStart[nodeCount] = acc
}

// EdgeRange returns the half-open [start, end) range of edge indices
// owned by node i.
func (s *SnapshotRaw) EdgeRange(i int) (start, end int) {
	return int(s.edgeStart[i]), int(s.edgeStart[i+1])
}

type recordFramingError struct {
	vec   string
	len   int
	width int
}

func errRecordFraming(vec string, length, width int) error {
	return &recordFramingError{vec, length, width}
}

func (e *recordFramingError) Error() string {
	return "record framing violated for " + e.vec
}

type edgeRangeTotalError struct {
	total int64
	count int
}

func errEdgeRangeTotal(total int64, count int) error {
	return &edgeRangeTotalError{total, count}
}

func (e *edgeRangeTotalError) Error() string {
	return "edge range total does not match edge count"
}
