package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/utils"
)

// SummaryMarkdown renders a colorized Markdown table, one row per
// constructor already capped to the requested top N. colorize should be
// false when the output isn't going to a terminal.
func SummaryMarkdown(s output.Summary, colorize bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# HeapSnapshot Summary\n\n")
	fmt.Fprintf(&b, "- Total nodes: %d\n\n", s.TotalNodes)

	tw := newTable(&b)
	fmt.Fprintln(tw, "Constructor\tCount\tSelf Size Sum")
	totalSelfSize := int64(0)
	for _, r := range s.Rows {
		totalSelfSize += r.SelfSizeSum
	}
	for _, r := range s.Rows {
		name := r.Name
		if name == "" {
			name = emptyNameLabel(r.EmptyNameTypes)
		}
		line := fmt.Sprintf("%s\t%d\t%s", escapeCell(name), r.Count, utils.MemorySize(r.SelfSizeSum))
		if colorize && totalSelfSize > 0 {
			share := float64(r.SelfSizeSum) / float64(totalSelfSize)
			line = utils.SeverityForShare(share).Render(line)
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
	return b.String()
}

func SummaryJSON(s output.Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func SummaryCSV(s output.Summary) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"constructor", "count", "self_size_sum"})
	for _, r := range s.Rows {
		name := r.Name
		if name == "" {
			name = emptyNameLabel(r.EmptyNameTypes)
		}
		w.Write([]string{name, strconv.Itoa(r.Count), strconv.FormatInt(r.SelfSizeSum, 10)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
