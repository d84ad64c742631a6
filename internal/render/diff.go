package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kavanlund/heapsnap/internal/output"
)

func DiffMarkdown(d output.Diff) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# HeapSnapshot Diff\n\n")
	fmt.Fprintf(&b, "- Total nodes A: %d\n- Total nodes B: %d\n\n", d.TotalNodesA, d.TotalNodesB)

	tw := newTable(&b)
	fmt.Fprintln(tw, "Constructor\tCount A\tCount B\tΔ Count\tΔ Self Size Sum")
	for _, r := range d.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%+d\t%+d\n", escapeCell(r.Name), r.CountA, r.CountB, r.CountDelta, r.SelfSizeSumDelta)
	}
	tw.Flush()
	return b.String()
}

func DiffJSON(d output.Diff) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func DiffCSV(d output.Diff) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"constructor", "count_a", "count_b", "count_delta", "self_size_sum_a", "self_size_sum_b", "self_size_sum_delta"})
	for _, r := range d.Rows {
		w.Write([]string{
			r.Name,
			strconv.Itoa(r.CountA),
			strconv.Itoa(r.CountB),
			strconv.Itoa(r.CountDelta),
			strconv.FormatInt(r.SelfSizeSumA, 10),
			strconv.FormatInt(r.SelfSizeSumB, 10),
			strconv.FormatInt(r.SelfSizeSumDelta, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
