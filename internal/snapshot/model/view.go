package model

import "strconv"

// NodeView is a logical record, not an owned object: a (raw, index) pair.
// All accessors except OutgoingEdges are O(1) and allocate nothing beyond
// what strconv needs for numeric-edge name resolution; OutgoingEdges
// builds a new slice of the node's edge indices on every call.
type NodeView struct {
	Raw   *SnapshotRaw
	Index int
}

func (n NodeView) base() int { return n.Index * n.Raw.Meta.NodeWidth }

func (n NodeView) TypeName() string {
	return n.Raw.Meta.NodeTypeName(n.Raw.Nodes[n.base()+n.Raw.Meta.NodeTypeIdx])
}

// Name resolves the node's declared "name" field through the string
// table.
func (n NodeView) Name() string {
	ref := n.Raw.Nodes[n.base()+n.Raw.Meta.NodeNameIdx]
	if ref < 0 || int(ref) >= len(n.Raw.Strings) {
		return ""
	}
	return n.Raw.Strings[ref]
}

func (n NodeView) Id() int64 {
	return n.Raw.Nodes[n.base()+n.Raw.Meta.NodeIdIdx]
}

func (n NodeView) SelfSize() int64 {
	return n.Raw.Nodes[n.base()+n.Raw.Meta.NodeSelfSizeIdx]
}

func (n NodeView) EdgeCount() int64 {
	return n.Raw.Nodes[n.base()+n.Raw.Meta.NodeEdgeCountIdx]
}

// OutgoingEdges returns the indices into Raw.Edges' record space (not
// byte offsets) owned by this node, in stored order.
func (n NodeView) OutgoingEdges() []int {
	start, end := n.Raw.EdgeRange(n.Index)
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// EdgeView is the edge analogue of NodeView.
type EdgeView struct {
	Raw   *SnapshotRaw
	Index int
}

func (e EdgeView) base() int { return e.Index * e.Raw.Meta.EdgeWidth }

func (e EdgeView) TypeName() string {
	return e.Raw.Meta.EdgeTypeName(e.Raw.Edges[e.base()+e.Raw.Meta.EdgeTypeIdx])
}

func (e EdgeView) NameOrIndex() int64 {
	return e.Raw.Edges[e.base()+e.Raw.Meta.EdgeNameOrIndexIdx]
}

// ToNodeIndex converts the edge's byte-base to_node field into a logical
// node index.
func (e EdgeView) ToNodeIndex() int {
	toNode := e.Raw.Edges[e.base()+e.Raw.Meta.EdgeToNodeIdx]
	return int(toNode) / e.Raw.Meta.NodeWidth
}

// ResolvedName is the referenced string when the edge is a
// property/string-keyed edge, a decimal rendering of name_or_index when
// the edge type is numeric (context slot...), or empty when the type is
// "element" (array index edges, which carry no meaningful name).
func (e EdgeView) ResolvedName() string {
	t := e.TypeName()
	switch t {
	case "element", "context":
		if t == "element" {
			return ""
		}
		return strconv.FormatInt(e.NameOrIndex(), 10)
	case "property", "shortcut", "internal", "hidden", "weak":
		ref := e.NameOrIndex()
		if ref < 0 || int(ref) >= len(e.Raw.Strings) {
			return ""
		}
		return e.Raw.Strings[ref]
	default:
		return strconv.FormatInt(e.NameOrIndex(), 10)
	}
}
