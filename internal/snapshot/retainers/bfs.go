package retainers

import (
	"strconv"
	"strings"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

// Step is one (from, edge, to) hop in root→target order.
type Step struct {
	From int
	Edge int
	To   int
}

// Path is an ordered sequence of steps from root to target.
type Path struct {
	Steps []Step
}

// Result is the retainer engine's output for one target.
type Result struct {
	Target int
	Root   Root
	Paths  []Path
}

type pathState struct {
	node    int
	steps   []Link // target-to-root order while building
	visited map[int]bool
}

// FindPaths runs layer-by-layer BFS backward from target along reverse
// adjacency, bounded by maxDepth, collecting up to maxPaths edge-distinct
// paths. Depth exhaustion is not an error: it simply terminates the
// search with whatever paths were found (spec §4.7).
func FindPaths(raw *model.SnapshotRaw, target int, root Root, maxPaths, maxDepth int, rev map[int][]Link, tok *cancel.Token) (*Result, error) {
	if target == root.Index {
		return &Result{Target: target, Root: root, Paths: []Path{{Steps: nil}}}, nil
	}

	layer := []pathState{{node: target, visited: map[int]bool{target: true}}}
	seenSequences := make(map[string]bool)
	var paths []Path

	for depth := 0; depth < maxDepth && len(layer) > 0 && len(paths) < maxPaths; depth++ {
		if tok.Cancelled() {
			return nil, &snaperr.Cancelled{Op: "retainer bfs"}
		}

		var next []pathState
		for _, state := range layer {
			if len(paths) >= maxPaths {
				break
			}
			for _, link := range rev[state.node] {
				if tok.Cancelled() {
					return nil, &snaperr.Cancelled{Op: "retainer bfs"}
				}
				if len(paths) >= maxPaths {
					break
				}
				if state.visited[link.From] {
					continue
				}

				childSteps := append(append([]Link(nil), state.steps...), link)
				childVisited := make(map[int]bool, len(state.visited)+1)
				for k := range state.visited {
					childVisited[k] = true
				}
				childVisited[link.From] = true

				if link.From == root.Index {
					key := sequenceKey(childSteps)
					if !seenSequences[key] {
						seenSequences[key] = true
						paths = append(paths, Path{Steps: reverseToSteps(childSteps)})
					}
					continue
				}

				next = append(next, pathState{node: link.From, steps: childSteps, visited: childVisited})
			}
		}
		layer = next
	}

	return &Result{Target: target, Root: root, Paths: paths}, nil
}

func reverseToSteps(links []Link) []Step {
	steps := make([]Step, len(links))
	for i, l := range links {
		steps[len(links)-1-i] = Step{From: l.From, Edge: l.Edge, To: l.To}
	}
	return steps
}

func sequenceKey(links []Link) string {
	var b strings.Builder
	for _, l := range links {
		b.WriteString(strconv.Itoa(l.Edge))
		b.WriteByte(',')
	}
	return b.String()
}
