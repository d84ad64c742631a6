// Package render turns the internal/output result schemas into the three
// presentation formats the CLI exposes: Markdown (the default, colorized
// when writing to a terminal), CSV, and pretty-printed JSON. It never
// touches the snapshot engine directly — only the already-built output
// structures, mirroring the "renderer" collaborator boundary the engine
// is specified against.
package render

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

const maxCellLen = 120

// newTable returns a tabwriter configured for Markdown-ish pipe tables:
// minwidth 0, tabwidth 0, padding 1, pad with spaces.
func newTable(w *strings.Builder) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
}

// escapeCell makes a string safe to drop into a single Markdown table
// cell: collapse whitespace, escape pipes, and truncate long values so
// one outsized object name can't blow up the table width.
func escapeCell(value string) string {
	value = collapseWhitespace(value)
	value = strings.ReplaceAll(value, "|", "\\|")
	runes := []rune(value)
	if len(runes) > maxCellLen {
		return string(runes[:maxCellLen]) + "…"
	}
	return value
}

func collapseWhitespace(value string) string {
	fields := strings.Fields(value)
	return strings.Join(fields, " ")
}

func emptyNameLabel(types map[string]int64) string {
	if len(types) == 0 {
		return "(empty)"
	}
	keys := make([]string, 0, len(types))
	for t := range types {
		keys = append(keys, t)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, t := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", t, types[t]))
	}
	return "(empty; types: " + strings.Join(parts, ", ") + ")"
}
