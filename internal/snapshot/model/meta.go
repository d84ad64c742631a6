// Package model holds the snapshot engine's data model: the declared
// schema (SnapshotMeta), the field offsets and enum tables derived from it
// (BoundMeta), and the flat owned storage plus zero-allocation views
// (SnapshotRaw, NodeView, EdgeView) built on top of both.
package model

import "github.com/kavanlund/heapsnap/internal/snapshot/snaperr"

// FieldKind is the shape of a single declared field: either a primitive
// or an enum with a fixed member list.
type FieldKind struct {
	Primitive string   // "number", "string", "string_or_number"; empty if Enum is set
	Enum      []string // member names, in encoded-value order; nil if Primitive is set
}

func (k FieldKind) IsEnum() bool { return k.Enum != nil }

// SnapshotMeta is the schema declared by snapshot.meta: parallel
// name/kind lists for node fields and edge fields.
type SnapshotMeta struct {
	NodeFieldNames []string
	NodeFieldKinds []FieldKind
	EdgeFieldNames []string
	EdgeFieldKinds []FieldKind
}

// BoundMeta is SnapshotMeta resolved into the offsets and decode tables
// every view needs. Construct with Bind.
type BoundMeta struct {
	NodeWidth int
	EdgeWidth int

	NodeTypeIdx      int
	NodeNameIdx      int
	NodeIdIdx        int
	NodeSelfSizeIdx  int
	NodeEdgeCountIdx int

	EdgeTypeIdx         int
	EdgeNameOrIndexIdx  int
	EdgeToNodeIdx       int

	NodeTypeNames []string // decode table for node "type" enum
	EdgeTypeNames []string // decode table for edge "type" enum
}

const (
	fieldType       = "type"
	fieldName       = "name"
	fieldId         = "id"
	fieldSelfSize   = "self_size"
	fieldEdgeCount  = "edge_count"
	fieldNameOrIdx  = "name_or_index"
	fieldToNode     = "to_node"
)

// Bind validates meta and computes a BoundMeta. On failure it returns a
// *snaperr.MetaBindingError naming every missing or misshapen field at
// once.
func Bind(meta SnapshotMeta) (*BoundMeta, error) {
	var missing []string

	nodeIdx := func(name string) int {
		for i, n := range meta.NodeFieldNames {
			if n == name {
				return i
			}
		}
		return -1
	}
	edgeIdx := func(name string) int {
		for i, n := range meta.EdgeFieldNames {
			if n == name {
				return i
			}
		}
		return -1
	}

	bound := &BoundMeta{
		NodeWidth: len(meta.NodeFieldNames),
		EdgeWidth: len(meta.EdgeFieldNames),
	}

	bound.NodeTypeIdx = nodeIdx(fieldType)
	bound.NodeNameIdx = nodeIdx(fieldName)
	bound.NodeIdIdx = nodeIdx(fieldId)
	bound.NodeSelfSizeIdx = nodeIdx(fieldSelfSize)
	bound.NodeEdgeCountIdx = nodeIdx(fieldEdgeCount)

	bound.EdgeTypeIdx = edgeIdx(fieldType)
	bound.EdgeNameOrIndexIdx = edgeIdx(fieldNameOrIdx)
	bound.EdgeToNodeIdx = edgeIdx(fieldToNode)

	if bound.NodeTypeIdx < 0 {
		missing = append(missing, "node field \"type\"")
	} else if !meta.NodeFieldKinds[bound.NodeTypeIdx].IsEnum() {
		missing = append(missing, "node field \"type\" must be enum-kind")
	}
	if bound.NodeNameIdx < 0 {
		missing = append(missing, "node field \"name\"")
	}
	if bound.NodeIdIdx < 0 {
		missing = append(missing, "node field \"id\"")
	}
	if bound.NodeSelfSizeIdx < 0 {
		missing = append(missing, "node field \"self_size\"")
	}
	if bound.NodeEdgeCountIdx < 0 {
		missing = append(missing, "node field \"edge_count\"")
	}
	if bound.EdgeTypeIdx < 0 {
		missing = append(missing, "edge field \"type\"")
	} else if !meta.EdgeFieldKinds[bound.EdgeTypeIdx].IsEnum() {
		missing = append(missing, "edge field \"type\" must be enum-kind")
	}
	if bound.EdgeNameOrIndexIdx < 0 {
		missing = append(missing, "edge field \"name_or_index\"")
	}
	if bound.EdgeToNodeIdx < 0 {
		missing = append(missing, "edge field \"to_node\"")
	}

	if len(missing) > 0 {
		return nil, &snaperr.MetaBindingError{Missing: missing}
	}

	bound.NodeTypeNames = meta.NodeFieldKinds[bound.NodeTypeIdx].Enum
	bound.EdgeTypeNames = meta.EdgeFieldKinds[bound.EdgeTypeIdx].Enum

	return bound, nil
}

// NodeTypeName decodes an encoded node type value, returning "" if it
// falls outside the declared enum (callers treat that as an empty type
// name rather than an error, per the binder's "ignore unknown extras"
// policy applied defensively to malformed enum values too).
func (b *BoundMeta) NodeTypeName(v int64) string {
	if v < 0 || int(v) >= len(b.NodeTypeNames) {
		return ""
	}
	return b.NodeTypeNames[v]
}

// EdgeTypeName decodes an encoded edge type value.
func (b *BoundMeta) EdgeTypeName(v int64) string {
	if v < 0 || int(v) >= len(b.EdgeTypeNames) {
		return ""
	}
	return b.EdgeTypeNames[v]
}
