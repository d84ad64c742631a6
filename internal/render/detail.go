package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kavanlund/heapsnap/internal/output"
)

func DetailMarkdown(d output.Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Constructor Detail: %s\n\n", escapeCell(d.Name))
	if d.Mode == "by_id" {
		id := "n/a"
		if d.Id != nil {
			id = fmt.Sprintf("%d", *d.Id)
		}
		fmt.Fprintf(&b, "- Node: index %d, id %s, type %s, self size %d\n", d.NodeIndex, id, d.NodeType, d.SelfSize)
	}
	fmt.Fprintf(&b, "- Total count: %d\n- Self size sum: %d\n- Max/min/avg self size: %d / %d / %.1f\n\n",
		d.TotalCount, d.SelfSizeSum, d.MaxSelfSize, d.MinSelfSize, d.AvgSelfSize)

	if len(d.Ids) > 0 {
		fmt.Fprintf(&b, "## Matching nodes (showing %d, skip %d, total %d)\n\n", len(d.Ids), d.Skip, d.TotalIds)
		tw := newTable(&b)
		fmt.Fprintln(tw, "Index\tId\tType\tSelf Size")
		for _, n := range d.Ids {
			id := int64(0)
			if n.Id != nil {
				id = *n.Id
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\n", n.Index, id, n.NodeType, n.SelfSize)
		}
		tw.Flush()
		fmt.Fprintln(&b)
	}

	if len(d.Retainers) > 0 {
		fmt.Fprintf(&b, "## Top retainers\n\n")
		tw := newTable(&b)
		fmt.Fprintln(tw, "From\tName\tType\tSelf Size\tEdge")
		for _, r := range d.Retainers {
			label := r.EdgeName
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s(%s)\n", r.FromIndex, escapeCell(r.FromName), r.FromNodeType, r.FromSelfSize, r.EdgeType, escapeCell(label))
		}
		tw.Flush()
		fmt.Fprintln(&b)
	}

	if len(d.OutgoingEdges) > 0 {
		fmt.Fprintf(&b, "## Top outgoing edges\n\n")
		tw := newTable(&b)
		fmt.Fprintln(tw, "To\tName\tType\tSelf Size\tEdge")
		for _, e := range d.OutgoingEdges {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s(%s)\n", e.ToIndex, escapeCell(e.ToName), e.ToNodeType, e.ToSelfSize, e.EdgeType, escapeCell(e.EdgeName))
		}
		tw.Flush()
		fmt.Fprintln(&b)
	}

	if len(d.ShallowSizeDistribution) > 0 {
		fmt.Fprintf(&b, "## Self size distribution\n\n")
		tw := newTable(&b)
		fmt.Fprintln(tw, "Bucket\tCount")
		for _, bucket := range d.ShallowSizeDistribution {
			fmt.Fprintf(tw, "%s\t%d\n", bucket.Label, bucket.Count)
		}
		tw.Flush()
	}

	return b.String()
}

func DetailJSON(d output.Detail) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func DetailCSV(d output.Detail) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"index", "id", "node_type", "self_size"})
	for _, n := range d.Ids {
		id := int64(0)
		if n.Id != nil {
			id = *n.Id
		}
		w.Write([]string{strconv.Itoa(n.Index), strconv.FormatInt(id, 10), n.NodeType, strconv.FormatInt(n.SelfSize, 10)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
