// Package summary implements the summary kernel: a single pass over
// every node, aggregated by constructor name.
package summary

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

func defaultLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// cancelStride matches the parser's cadence guidance: every 64K
// iterations is sufficient per spec §5.
const cancelStride = 1 << 16

// Row is one constructor's aggregate.
type Row struct {
	Name         string
	Count        int
	SelfSizeSum  int64
	EmptyNameTypes map[string]int64 // node_type -> count, populated only when Name == ""
}

// Result is the summary kernel's output: every aggregate row plus the
// total node count walked.
type Result struct {
	TotalNodes int
	Rows       []Row
}

// Build walks raw once, honoring nameFilter as a case-sensitive substring
// match against constructor name (empty matches all), and cancel as the
// shared cancellation flag. logger defaults to slog.Default() when nil.
func Build(raw *model.SnapshotRaw, nameFilter string, tok *cancel.Token, logger *slog.Logger) (*Result, error) {
	logger = defaultLogger(logger)
	agg := make(map[string]*Row)
	order := make([]string, 0)

	count := raw.NodeCount()
	for i := 0; i < count; i++ {
		if i > 0 && i%cancelStride == 0 && tok.Cancelled() {
			return nil, &snaperr.Cancelled{Op: "summary"}
		}

		node := model.NodeView{Raw: raw, Index: i}
		name := node.Name()
		if nameFilter != "" && !strings.Contains(name, nameFilter) {
			continue
		}

		row, ok := agg[name]
		if !ok {
			row = &Row{Name: name}
			if name == "" {
				row.EmptyNameTypes = make(map[string]int64)
			}
			agg[name] = row
			order = append(order, name)
		}
		row.Count++
		row.SelfSizeSum += node.SelfSize()
		if name == "" {
			row.EmptyNameTypes[node.TypeName()]++
		}
	}

	rows := make([]Row, 0, len(order))
	for _, name := range order {
		rows = append(rows, *agg[name])
	}
	sortCanonical(rows)

	logger.Debug("summary: complete", "nodes_walked", count, "rows", len(rows))
	return &Result{TotalNodes: count, Rows: rows}, nil
}

// sortCanonical orders rows descending by SelfSizeSum, ties by descending
// Count, ties by lexicographic name, per spec §4.5.
func sortCanonical(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SelfSizeSum != rows[j].SelfSizeSum {
			return rows[i].SelfSizeSum > rows[j].SelfSizeSum
		}
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
}
