package retainers

import (
	"log/slog"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/progress"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

func defaultLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// Link is one (predecessor, edge) pair pointing at a node — the reverse
// of the forward edge table stored on disk.
type Link struct {
	From int
	Edge int
	To   int
}

const reverseScanCancelStride = 1 << 16

// BuildReverseAdjacency performs the single full scan of the edges array
// that spec §4.7 describes as the amortized cost of retainer BFS: on
// first demand, populate reverse adjacency for every node encountered, so
// every subsequent lookup is O(fan-in).
func BuildReverseAdjacency(raw *model.SnapshotRaw, tok *cancel.Token, sink progress.Sink, logger *slog.Logger) (map[int][]Link, error) {
	logger = defaultLogger(logger)
	rev := make(map[int][]Link)
	nodeCount := raw.NodeCount()

	for i := 0; i < nodeCount; i++ {
		if i > 0 && i%reverseScanCancelStride == 0 {
			if tok.Cancelled() {
				return nil, &snaperr.Cancelled{Op: "reverse adjacency scan"}
			}
			progress.Emit(sink, progress.Event{Stage: "reverse_adjacency", Done: int64(i), Total: int64(nodeCount)})
		}

		start, end := raw.EdgeRange(i)
		for e := start; e < end; e++ {
			to := (model.EdgeView{Raw: raw, Index: e}).ToNodeIndex()
			rev[to] = append(rev[to], Link{From: i, Edge: e, To: to})
		}
	}

	logger.Debug("retainers: reverse adjacency built", "nodes_scanned", nodeCount, "targets_indexed", len(rev))
	return rev, nil
}
