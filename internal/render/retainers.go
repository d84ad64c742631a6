package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kavanlund/heapsnap/internal/output"
)

func RetainersMarkdown(r output.Retainers) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Retaining Paths\n\n")
	id := "n/a"
	if r.Target.Id != nil {
		id = fmt.Sprintf("%d", *r.Target.Id)
	}
	fmt.Fprintf(&b, "- Target: index %d, id %s, name %s, type %s\n", r.Target.Index, id, escapeCell(r.Target.Name), r.Target.NodeType)
	fmt.Fprintf(&b, "- Paths found: %d\n\n", len(r.Paths))

	if len(r.Paths) == 0 {
		fmt.Fprintln(&b, "_No retaining path found within the search bounds._")
		return b.String()
	}

	for i, p := range r.Paths {
		fmt.Fprintf(&b, "## Path %d\n\n", i+1)
		if len(p.Steps) == 0 {
			fmt.Fprintln(&b, "_(target is the root)_")
			continue
		}
		for _, s := range p.Steps {
			label := s.Edge.Name
			if label == "" {
				label = fmt.Sprintf("[%d]", s.Edge.NameOrIndex)
			}
			fmt.Fprintf(&b, "- node %d --%s(%s)--> node %d\n", s.From, s.Edge.EdgeType, escapeCell(label), s.To)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

func RetainersJSON(r output.Retainers) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
