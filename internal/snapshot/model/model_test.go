package model

import "testing"

func testMeta() SnapshotMeta {
	return SnapshotMeta{
		NodeFieldNames: []string{"type", "name", "id", "self_size", "edge_count"},
		NodeFieldKinds: []FieldKind{
			{Enum: []string{"object", "string", "closure"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
			{Primitive: "number"},
			{Primitive: "number"},
		},
		EdgeFieldNames: []string{"type", "name_or_index", "to_node"},
		EdgeFieldKinds: []FieldKind{
			{Enum: []string{"property", "element", "context"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
		},
	}
}

func TestBindResolvesRequiredOffsets(t *testing.T) {
	bound, err := Bind(testMeta())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if bound.NodeWidth != 5 || bound.EdgeWidth != 3 {
		t.Fatalf("widths = %d,%d want 5,3", bound.NodeWidth, bound.EdgeWidth)
	}
	if bound.NodeTypeIdx != 0 || bound.NodeIdIdx != 2 {
		t.Errorf("NodeTypeIdx=%d NodeIdIdx=%d", bound.NodeTypeIdx, bound.NodeIdIdx)
	}
}

func TestBindReportsEveryMissingFieldAtOnce(t *testing.T) {
	meta := testMeta()
	meta.NodeFieldNames = []string{"type"}
	meta.NodeFieldKinds = meta.NodeFieldKinds[:1]
	_, err := Bind(meta)
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	if err.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}

func TestBindRejectsNonEnumTypeField(t *testing.T) {
	meta := testMeta()
	meta.NodeFieldKinds[0] = FieldKind{Primitive: "number"}
	_, err := Bind(meta)
	if err == nil {
		t.Fatal("expected error when node type field isn't declared as enum")
	}
}

func TestNodeTypeNameOutOfRangeIsEmpty(t *testing.T) {
	bound, err := Bind(testMeta())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got := bound.NodeTypeName(99); got != "" {
		t.Errorf("NodeTypeName(99) = %q, want empty", got)
	}
	if got := bound.NodeTypeName(1); got != "string" {
		t.Errorf("NodeTypeName(1) = %q, want string", got)
	}
}

func rawFixture(t *testing.T) *SnapshotRaw {
	t.Helper()
	bound, err := Bind(testMeta())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	// Two nodes: node 0 has 1 outgoing edge, node 1 has 0.
	raw := &SnapshotRaw{
		Nodes: []int64{
			0, 0, 1001, 16, 1, // type=object, name="root", id=1001, self_size=16, edge_count=1
			1, 1, 1002, 8, 0, // type=string, name="leaf", id=1002, self_size=8, edge_count=0
		},
		Edges: []int64{
			0, 2, 5, // type=property, name_or_index="child" (string idx 2), to_node=5 (node 1's byte offset)
		},
		Strings: []string{"root", "leaf", "child"},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	return raw
}

func TestNodeCountAndEdgeCount(t *testing.T) {
	raw := rawFixture(t)
	if raw.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", raw.NodeCount())
	}
	if raw.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", raw.EdgeCount())
	}
}

func TestEdgeRangeTableMatchesPerNodeEdgeCount(t *testing.T) {
	raw := rawFixture(t)
	start, end := raw.EdgeRange(0)
	if start != 0 || end != 1 {
		t.Errorf("node 0 edge range = [%d,%d), want [0,1)", start, end)
	}
	start, end = raw.EdgeRange(1)
	if start != 1 || end != 1 {
		t.Errorf("node 1 edge range = [%d,%d), want [1,1)", start, end)
	}
}

func TestValidateAcceptsWellFormedRaw(t *testing.T) {
	raw := rawFixture(t)
	if err := raw.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsRecordFramingMismatch(t *testing.T) {
	raw := rawFixture(t)
	raw.Nodes = raw.Nodes[:9] // not a multiple of NodeWidth=5
	if err := raw.Validate(); err == nil {
		t.Error("expected error for misframed node records")
	}
}

func TestValidateRejectsOutOfRangeToNode(t *testing.T) {
	raw := rawFixture(t)
	raw.Edges[2] = 999
	if err := raw.Validate(); err == nil {
		t.Error("expected error for out-of-range to_node")
	}
}

func TestNodeViewAccessors(t *testing.T) {
	raw := rawFixture(t)
	n := NodeView{Raw: raw, Index: 0}
	if n.TypeName() != "object" {
		t.Errorf("TypeName() = %q", n.TypeName())
	}
	if n.Name() != "root" {
		t.Errorf("Name() = %q", n.Name())
	}
	if n.Id() != 1001 {
		t.Errorf("Id() = %d", n.Id())
	}
	if n.SelfSize() != 16 {
		t.Errorf("SelfSize() = %d", n.SelfSize())
	}
	edges := n.OutgoingEdges()
	if len(edges) != 1 || edges[0] != 0 {
		t.Errorf("OutgoingEdges() = %v, want [0]", edges)
	}
}

func TestEdgeViewResolvedNameForPropertyEdge(t *testing.T) {
	raw := rawFixture(t)
	e := EdgeView{Raw: raw, Index: 0}
	if e.TypeName() != "property" {
		t.Errorf("TypeName() = %q", e.TypeName())
	}
	if e.ResolvedName() != "child" {
		t.Errorf("ResolvedName() = %q, want child", e.ResolvedName())
	}
	if e.ToNodeIndex() != 1 {
		t.Errorf("ToNodeIndex() = %d, want 1", e.ToNodeIndex())
	}
}

func TestEdgeViewResolvedNameForElementEdgeIsEmpty(t *testing.T) {
	bound, _ := Bind(testMeta())
	raw := &SnapshotRaw{
		Nodes:   []int64{0, 0, 1, 0, 0},
		Edges:   []int64{1, 3, 0}, // type=element
		Strings: []string{"root"},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	e := EdgeView{Raw: raw, Index: 0}
	if e.ResolvedName() != "" {
		t.Errorf("ResolvedName() for element edge = %q, want empty", e.ResolvedName())
	}
}

func TestEdgeViewResolvedNameForContextEdgeIsDecimal(t *testing.T) {
	bound, _ := Bind(testMeta())
	raw := &SnapshotRaw{
		Nodes:   []int64{0, 0, 1, 0, 0},
		Edges:   []int64{2, 7, 0}, // type=context, name_or_index=7
		Strings: []string{"root"},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	e := EdgeView{Raw: raw, Index: 0}
	if e.ResolvedName() != "7" {
		t.Errorf("ResolvedName() for context edge = %q, want \"7\"", e.ResolvedName())
	}
}
