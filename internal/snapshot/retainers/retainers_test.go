package retainers

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/kavanlund/heapsnap/internal/snapshot/model"
)

func retainersFixture(t *testing.T) *model.SnapshotRaw {
	t.Helper()
	bound, err := model.Bind(model.SnapshotMeta{
		NodeFieldNames: []string{"type", "name", "id", "self_size", "edge_count"},
		NodeFieldKinds: []model.FieldKind{
			{Enum: []string{"object", "synthetic"}},
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
	// 0: GC roots -> 1: A -> 2: B (target)
	raw := &model.SnapshotRaw{
		Nodes: []int64{
			1, 0, 100, 0, 1, // GC roots, 1 edge
			0, 1, 101, 8, 1, // A, 1 edge
			0, 2, 102, 16, 0, // B, 0 edges
		},
		Edges: []int64{
			0, 3, 5, // GC roots -> A (to_node byte 5 = node 1)
			0, 4, 10, // A -> B (to_node byte 10 = node 2)
		},
		Strings: []string{"GC roots", "A", "B", "toA", "toB"},
		Meta:    bound,
	}
	raw.BuildEdgeRangeTable()
	return raw
}

func TestFindRootPicksLowestIndexGCRoots(t *testing.T) {
	raw := retainersFixture(t)
	root := FindRoot(raw)
	if root.Index != 0 || root.Synthetic {
		t.Errorf("FindRoot = %+v, want {0 false}", root)
	}
}

func TestFindRootFallsBackWhenNoGCRootsNode(t *testing.T) {
	raw := retainersFixture(t)
	raw.Strings[0] = "not a root"
	root := FindRoot(raw)
	if root.Index != 0 || !root.Synthetic {
		t.Errorf("FindRoot = %+v, want synthetic fallback to 0", root)
	}
}

func TestBuildReverseAdjacencyCoversEveryEdge(t *testing.T) {
	raw := retainersFixture(t)
	rev, err := BuildReverseAdjacency(raw, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildReverseAdjacency: %v", err)
	}
	if len(rev[1]) != 1 || rev[1][0].From != 0 {
		t.Errorf("rev[1] = %v, want one link from node 0", rev[1])
	}
	if len(rev[2]) != 1 || rev[2][0].From != 1 {
		t.Errorf("rev[2] = %v, want one link from node 1", rev[2])
	}
}

func TestBuildReverseAdjacencyLogsMilestoneAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	raw := retainersFixture(t)
	if _, err := BuildReverseAdjacency(raw, nil, nil, logger); err != nil {
		t.Fatalf("BuildReverseAdjacency: %v", err)
	}
	if !strings.Contains(buf.String(), "retainers: reverse adjacency built") {
		t.Errorf("expected a Debug milestone log, got: %q", buf.String())
	}
}

func TestFindPathsReturnsEmptyPathWhenTargetIsRoot(t *testing.T) {
	raw := retainersFixture(t)
	rev, _ := BuildReverseAdjacency(raw, nil, nil, nil)
	result, err := FindPaths(raw, 0, Root{Index: 0}, 5, 10, rev, nil)
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(result.Paths) != 1 || len(result.Paths[0].Steps) != 0 {
		t.Errorf("Paths = %+v, want one empty-step path", result.Paths)
	}
}

func TestFindPathsFindsShortestChainToRoot(t *testing.T) {
	raw := retainersFixture(t)
	rev, _ := BuildReverseAdjacency(raw, nil, nil, nil)
	result, err := FindPaths(raw, 2, Root{Index: 0}, 5, 10, rev, nil)
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("len(Paths) = %d, want 1", len(result.Paths))
	}
	steps := result.Paths[0].Steps
	if len(steps) != 2 || steps[0].From != 0 || steps[1].From != 1 {
		t.Errorf("Steps = %+v, want root->A->B", steps)
	}
}

func TestFindPathsTruncatesAtMaxDepthWithoutError(t *testing.T) {
	raw := retainersFixture(t)
	rev, _ := BuildReverseAdjacency(raw, nil, nil, nil)
	result, err := FindPaths(raw, 2, Root{Index: 0}, 5, 1, rev, nil)
	if err != nil {
		t.Fatalf("FindPaths: %v", err)
	}
	if len(result.Paths) != 0 {
		t.Errorf("len(Paths) = %d, want 0 (depth exhausted before reaching root)", len(result.Paths))
	}
}

func TestResolveByIDFindsExactMatch(t *testing.T) {
	raw := retainersFixture(t)
	idx, err := ResolveByID(raw, 101, nil)
	if err != nil {
		t.Fatalf("ResolveByID: %v", err)
	}
	if idx != 1 {
		t.Errorf("ResolveByID(101) = %d, want 1", idx)
	}
}

func TestResolveByIDReturnsNotFoundForUnknownID(t *testing.T) {
	raw := retainersFixture(t)
	_, err := ResolveByID(raw, 999, nil)
	if err == nil {
		t.Fatal("expected TargetNotFound error")
	}
}

func TestResolveByNameSingleMatchIgnoresPickPolicy(t *testing.T) {
	raw := retainersFixture(t)
	idx, err := ResolveByName(raw, "A", PickNone)
	if err != nil {
		t.Fatalf("ResolveByName: %v", err)
	}
	if idx != 1 {
		t.Errorf("ResolveByName(A) = %d, want 1", idx)
	}
}

func TestResolveByNameAmbiguousWithoutPickPolicy(t *testing.T) {
	raw := retainersFixture(t)
	_, err := ResolveByName(raw, "", PickNone)
	if err == nil {
		t.Fatal("expected AmbiguousTarget error when multiple names match and no pick policy given")
	}
}

func TestResolveByNamePickLargestPrefersBiggerSelfSizeSum(t *testing.T) {
	raw := retainersFixture(t)
	idx, err := ResolveByName(raw, "", PickLargest)
	if err != nil {
		t.Fatalf("ResolveByName: %v", err)
	}
	// B has self_size 16, the largest single node.
	if idx != 2 {
		t.Errorf("ResolveByName pick=largest = %d, want 2 (B)", idx)
	}
}

func TestResolveByNameUnknownReturnsCandidates(t *testing.T) {
	raw := retainersFixture(t)
	_, err := ResolveByName(raw, "Zzz", PickLargest)
	if err == nil {
		t.Fatal("expected TargetNotFound error")
	}
}
