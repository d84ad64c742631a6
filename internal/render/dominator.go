package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kavanlund/heapsnap/internal/output"
)

func DominatorMarkdown(d output.Dominator) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dominator Chain\n\n")
	fmt.Fprintf(&b, "- Target: index %d\n- Chain length: %d\n\n", d.Target, len(d.Chain))
	for i, idx := range d.Chain {
		arrow := ""
		if i > 0 {
			arrow = " -> "
		}
		fmt.Fprintf(&b, "%s%d", arrow, idx)
	}
	fmt.Fprintln(&b)
	return b.String()
}

func DominatorJSON(d output.Dominator) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
