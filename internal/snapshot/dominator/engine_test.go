package dominator

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/kavanlund/heapsnap/internal/snapshot/model"
)

func dominatorFixture(t *testing.T) *model.SnapshotRaw {
	t.Helper()
	bound, err := model.Bind(model.SnapshotMeta{
		NodeFieldNames: []string{"type", "name", "id", "self_size", "edge_count"},
		NodeFieldKinds: []model.FieldKind{
			{Enum: []string{"object"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
			{Primitive: "number"},
			{Primitive: "number"},
		},
		EdgeFieldNames: []string{"type", "name_or_index", "to_node"},
		EdgeFieldKinds: []model.FieldKind{
			{Enum: []string{"property"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
		},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	// root(0) -> A(1) -> B(2); root -> B too (diamond, idom(B) = root).
	raw := &model.SnapshotRaw{
		Nodes: []int64{
			0, 0, 0, 0, 2,
			0, 0, 1, 0, 1,
			0, 0, 2, 0, 0,
		},
		Edges: []int64{
			0, 0, 5,  // root -> A
			0, 0, 10, // root -> B
			0, 0, 10, // A -> B
		},
		Strings: []string{},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	return raw
}

func linearFixture(t *testing.T) *model.SnapshotRaw {
	t.Helper()
	bound, err := model.Bind(model.SnapshotMeta{
		NodeFieldNames: []string{"type", "name", "id", "self_size", "edge_count"},
		NodeFieldKinds: []model.FieldKind{
			{Enum: []string{"object"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
			{Primitive: "number"},
			{Primitive: "number"},
		},
		EdgeFieldNames: []string{"type", "name_or_index", "to_node"},
		EdgeFieldKinds: []model.FieldKind{
			{Enum: []string{"property"}},
			{Primitive: "string_or_number"},
			{Primitive: "number"},
		},
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	// root(0) -> A(1) -> B(2), strictly linear.
	raw := &model.SnapshotRaw{
		Nodes: []int64{
			0, 0, 0, 0, 1,
			0, 0, 1, 0, 1,
			0, 0, 2, 0, 0,
		},
		Edges: []int64{
			0, 0, 5,
			0, 0, 10,
		},
		Strings: []string{},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	return raw
}

func TestBuildDiamondGraphDominatorIsRoot(t *testing.T) {
	raw := dominatorFixture(t)
	m, err := Build(raw, 0, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	chain, err := m.Chain(2, 0)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 2 || chain[0] != 0 || chain[1] != 2 {
		t.Errorf("Chain(B) = %v, want [root, B] (B is reachable directly from root too)", chain)
	}
}

func TestBuildLinearGraphChainIncludesEveryAncestor(t *testing.T) {
	raw := linearFixture(t)
	m, err := Build(raw, 0, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	chain, err := m.Chain(2, 0)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 3 || chain[0] != 0 || chain[1] != 1 || chain[2] != 2 {
		t.Errorf("Chain(B) = %v, want [root, A, B]", chain)
	}
}

func TestChainTruncatesAtMaxDepthWithoutError(t *testing.T) {
	raw := linearFixture(t)
	m, err := Build(raw, 0, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	chain, err := m.Chain(2, 1)
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 2 {
		t.Errorf("len(Chain) = %d, want 2 (truncated before reaching root)", len(chain))
	}
}

func TestBuildLogsConvergenceAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	raw := linearFixture(t)
	if _, err := Build(raw, 0, nil, logger); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(buf.String(), "dominator: converged") {
		t.Errorf("expected a convergence Debug log, got: %q", buf.String())
	}
}

func TestMaxIterationsBoundsTheFixedPointLoop(t *testing.T) {
	// The Cooper-Harvey-Kennedy loop is monotonic (idom only ever moves
	// toward the root in rpo order) so it always reaches a fixed point
	// well within maxIterations for any finite graph; this just pins the
	// cap exists and that ordinary graphs stay far under it.
	if maxIterations < 1 {
		t.Fatalf("maxIterations = %d, want a positive cap", maxIterations)
	}
	raw := linearFixture(t)
	if _, err := Build(raw, 0, nil, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestChainUnreachableTargetReturnsError(t *testing.T) {
	raw := linearFixture(t)
	m, err := Build(raw, 0, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = m.Chain(99, 0)
	if err == nil {
		t.Fatal("expected error for out-of-range target")
	}
}
