// Package dominator computes immediate dominators over the forward graph
// using the iterative Cooper-Harvey-Kennedy algorithm.
package dominator

import (
	"log/slog"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

const noIdom = -1

// maxIterations caps the fixed-point loop: a reducible graph converges in
// a handful of passes, but a pathological or cyclic input could otherwise
// never settle. Hitting the cap returns the best-effort tree computed so
// far rather than hanging.
const maxIterations = 1000

func defaultLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// Map holds the immediate dominator for every reachable node, indexed by
// node index. Unreachable nodes carry noIdom.
type Map struct {
	idom     []int
	rpoIndex []int
	root     int
}

// Build runs the fixed-point algorithm rooted at root: reverse-postorder
// DFS over the forward graph, then iterate intersect() until no change or
// maxIterations is reached. logger defaults to slog.Default() when nil.
func Build(raw *model.SnapshotRaw, root int, tok *cancel.Token, logger *slog.Logger) (*Map, error) {
	logger = defaultLogger(logger)
	nodeCount := raw.NodeCount()
	succs, preds := buildAdjacency(raw, nodeCount)

	rpo, rpoIndex := reversePostorder(succs, root, nodeCount)

	idom := make([]int, nodeCount)
	for i := range idom {
		idom[i] = noIdom
	}
	if root < nodeCount {
		idom[root] = root
	}

	if len(rpo) == 0 {
		return &Map{idom: idom, rpoIndex: rpoIndex, root: root}, nil
	}

	changed := true
	iterations := 0
	for changed && iterations < maxIterations {
		if tok.Cancelled() {
			return nil, &snaperr.Cancelled{Op: "dominator"}
		}
		changed = false
		iterations++
		for _, node := range rpo {
			if node == root {
				continue
			}
			newIdom := noIdom
			for _, pred := range preds[node] {
				if idom[pred] == noIdom {
					continue
				}
				if newIdom == noIdom {
					newIdom = pred
				} else {
					newIdom = intersect(pred, newIdom, rpoIndex, idom)
				}
			}
			if newIdom != noIdom && idom[node] != newIdom {
				idom[node] = newIdom
				changed = true
			}
		}
	}

	if changed {
		logger.Warn("dominator: did not converge", "iterations", iterations, "max_iterations", maxIterations, "root", root)
	} else {
		logger.Debug("dominator: converged", "iterations", iterations, "reachable", len(rpo))
	}

	return &Map{idom: idom, rpoIndex: rpoIndex, root: root}, nil
}

// Chain walks idom from target up to root, reversing to root→target
// order, stopping after at most maxDepth hops (0 means unlimited; hitting
// the cap truncates the chain rather than failing, per the DepthExhausted
// contract). Returns an error if target is unreachable.
func (m *Map) Chain(target int, maxDepth int) ([]int, error) {
	if target < 0 || target >= len(m.idom) || m.idom[target] == noIdom {
		return nil, &snaperr.TargetNotFound{Query: "dominator chain: target unreachable from root"}
	}

	var chain []int
	current := target
	for hops := 0; maxDepth <= 0 || hops <= maxDepth; hops++ {
		chain = append(chain, current)
		next := m.idom[current]
		if next == current {
			break
		}
		current = next
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// buildAdjacency builds forward successor and predecessor lists in a
// single pass over the edge-range table, ignoring self-loops and
// collapsing multi-edges for predecessor iteration (spec §4.8 edge
// cases).
func buildAdjacency(raw *model.SnapshotRaw, nodeCount int) (succs, preds [][]int) {
	succs = make([][]int, nodeCount)
	preds = make([][]int, nodeCount)
	seenPred := make([]map[int]bool, nodeCount)

	for i := 0; i < nodeCount; i++ {
		start, end := raw.EdgeRange(i)
		for e := start; e < end; e++ {
			to := (model.EdgeView{Raw: raw, Index: e}).ToNodeIndex()
			if to == i || to >= nodeCount {
				continue
			}
			succs[i] = append(succs[i], to)
			if seenPred[to] == nil {
				seenPred[to] = make(map[int]bool)
			}
			if !seenPred[to][i] {
				seenPred[to][i] = true
				preds[to] = append(preds[to], i)
			}
		}
	}
	return succs, preds
}

// reversePostorder runs an explicit-stack iterative DFS from root over
// the forward graph and returns the postorder-reversed node list plus an
// index lookup from node to its position in that list.
func reversePostorder(succs [][]int, root, nodeCount int) (rpo []int, rpoIndex []int) {
	rpoIndex = make([]int, nodeCount)
	for i := range rpoIndex {
		rpoIndex[i] = -1
	}
	if root >= nodeCount {
		return nil, rpoIndex
	}

	visited := make([]bool, nodeCount)
	type frame struct{ node, next int }
	stack := []frame{{root, 0}}
	visited[root] = true
	var postorder []int

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(succs[top.node]) {
			nextNode := succs[top.node][top.next]
			top.next++
			if nextNode < nodeCount && !visited[nextNode] {
				visited[nextNode] = true
				stack = append(stack, frame{nextNode, 0})
			}
		} else {
			postorder = append(postorder, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	rpo = make([]int, len(postorder))
	for i, node := range postorder {
		rpo[len(postorder)-1-i] = node
	}
	for i, node := range rpo {
		rpoIndex[node] = i
	}
	return rpo, rpoIndex
}

func intersect(a, b int, rpoIndex []int, idom []int) int {
	for a != b {
		for rpoIndex[a] > rpoIndex[b] {
			a = idom[a]
		}
		for rpoIndex[b] > rpoIndex[a] {
			b = idom[b]
		}
	}
	return a
}
