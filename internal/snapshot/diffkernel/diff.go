// Package diffkernel joins two summary.Result aggregates into per-name
// deltas.
package diffkernel

import (
	"sort"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
	"github.com/kavanlund/heapsnap/internal/snapshot/summary"
)

const cancelStride = 1 << 16

// Row is one constructor name's side-by-side comparison.
type Row struct {
	Name           string
	CountA         int
	CountB         int
	CountDelta     int
	SelfSizeSumA   int64
	SelfSizeSumB   int64
	SelfSizeSumDelta int64
}

// Result is the diff kernel's output.
type Result struct {
	TotalNodesA int
	TotalNodesB int
	Rows        []Row
}

// Build joins a and b over the union of constructor names. Missing
// entries on either side contribute zero.
func Build(a, b *summary.Result, tok *cancel.Token) (*Result, error) {
	byNameA := make(map[string]summary.Row, len(a.Rows))
	for _, r := range a.Rows {
		byNameA[r.Name] = r
	}
	byNameB := make(map[string]summary.Row, len(b.Rows))
	for _, r := range b.Rows {
		byNameB[r.Name] = r
	}

	seen := make(map[string]bool, len(byNameA)+len(byNameB))
	var names []string
	for _, r := range a.Rows {
		if !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
	}
	for _, r := range b.Rows {
		if !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
	}

	rows := make([]Row, 0, len(names))
	for i, name := range names {
		if i > 0 && i%cancelStride == 0 && tok.Cancelled() {
			return nil, &snaperr.Cancelled{Op: "diff"}
		}
		ra := byNameA[name]
		rb := byNameB[name]
		rows = append(rows, Row{
			Name:             name,
			CountA:           ra.Count,
			CountB:           rb.Count,
			CountDelta:       rb.Count - ra.Count,
			SelfSizeSumA:     ra.SelfSizeSum,
			SelfSizeSumB:     rb.SelfSizeSum,
			SelfSizeSumDelta: rb.SelfSizeSum - ra.SelfSizeSum,
		})
	}

	sortCanonical(rows)

	return &Result{TotalNodesA: a.TotalNodes, TotalNodesB: b.TotalNodes, Rows: rows}, nil
}

// sortCanonical orders rows descending by absolute size delta, ties by
// descending absolute count delta, ties by name, per spec §4.6.
func sortCanonical(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		ai, aj := abs64(rows[i].SelfSizeSumDelta), abs64(rows[j].SelfSizeSumDelta)
		if ai != aj {
			return ai > aj
		}
		ci, cj := abs(rows[i].CountDelta), abs(rows[j].CountDelta)
		if ci != cj {
			return ci > cj
		}
		return rows[i].Name < rows[j].Name
	})
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
