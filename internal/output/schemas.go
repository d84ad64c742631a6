// Package output defines the JSON result schemas every renderer (CLI
// text output, the build command, the HTTP viewer) serializes. All carry
// "version": 1 per spec §6. A nil pointer field marshals to JSON null
// where an attribute is legitimately absent (e.g. a node's id).
package output

const SchemaVersion = 1

// SummaryRow is one constructor aggregate row in a Summary response.
// EmptyNameTypes is populated only when Name is empty: a node_type→count
// breakdown so an unnamed-constructor row is still legible.
type SummaryRow struct {
	Name           string           `json:"name"`
	Count          int              `json:"count"`
	SelfSizeSum    int64            `json:"self_size_sum"`
	EmptyNameTypes map[string]int64 `json:"empty_name_types,omitempty"`
}

// Summary is the output of the summary kernel.
type Summary struct {
	Version    int          `json:"version"`
	TotalNodes int          `json:"total_nodes"`
	Rows       []SummaryRow `json:"rows"`
}

// RetainerEdge describes the edge taken on one retainer path step.
type RetainerEdge struct {
	Index       int    `json:"index"`
	EdgeType    string `json:"edge_type"`
	NameOrIndex int64  `json:"name_or_index"`
	Name        string `json:"name"`
}

// RetainerStep is one (from, edge, to) hop.
type RetainerStep struct {
	From int          `json:"from"`
	Edge RetainerEdge `json:"edge"`
	To   int          `json:"to"`
}

// RetainerPath is an ordered root→target sequence of steps.
type RetainerPath struct {
	Steps []RetainerStep `json:"steps"`
}

// RetainerTarget describes the resolved target node.
type RetainerTarget struct {
	Index    int     `json:"index"`
	Id       *int64  `json:"id"`
	Name     string  `json:"name"`
	NodeType string  `json:"node_type"`
}

// Retainers is the output of the retainer engine.
type Retainers struct {
	Version int            `json:"version"`
	Target  RetainerTarget `json:"target"`
	Paths   []RetainerPath `json:"paths"`
}

// DiffRow is one constructor's side-by-side comparison.
type DiffRow struct {
	Name               string `json:"name"`
	CountA             int    `json:"count_a"`
	CountB             int    `json:"count_b"`
	CountDelta         int    `json:"count_delta"`
	SelfSizeSumA       int64  `json:"self_size_sum_a"`
	SelfSizeSumB       int64  `json:"self_size_sum_b"`
	SelfSizeSumDelta   int64  `json:"self_size_sum_delta"`
}

// Diff is the output of the diff kernel.
type Diff struct {
	Version       int       `json:"version"`
	TotalNodesA   int       `json:"total_nodes_a"`
	TotalNodesB   int       `json:"total_nodes_b"`
	Rows          []DiffRow `json:"rows"`
}

// BuildMeta is written alongside summary.json by the build command.
type BuildMeta struct {
	Version      int `json:"version"`
	TotalNodes   int `json:"total_nodes"`
	TotalEdges   int `json:"total_edges"`
	TotalStrings int `json:"total_strings"`
}

// Dominator is the output of the dominator engine's chain query.
type Dominator struct {
	Version int     `json:"version"`
	Target  int     `json:"target"`
	Chain   []int   `json:"chain"`
}

// DetailNodeRef is one node reference in a detail listing page.
type DetailNodeRef struct {
	Index    int    `json:"index"`
	Id       *int64 `json:"id"`
	NodeType string `json:"node_type"`
	SelfSize int64  `json:"self_size"`
}

// DetailRetainer is one retainer of a detail-by-id target.
type DetailRetainer struct {
	FromIndex    int    `json:"from_index"`
	FromId       *int64 `json:"from_id"`
	FromName     string `json:"from_name"`
	FromNodeType string `json:"from_node_type"`
	FromSelfSize int64  `json:"from_self_size"`
	EdgeIndex    int    `json:"edge_index"`
	EdgeType     string `json:"edge_type"`
	EdgeName     string `json:"edge_name"`
}

// DetailOutgoingEdge is one outgoing edge of a detail-by-id target.
type DetailOutgoingEdge struct {
	EdgeIndex  int    `json:"edge_index"`
	EdgeType   string `json:"edge_type"`
	EdgeName   string `json:"edge_name"`
	ToIndex    int    `json:"to_index"`
	ToId       *int64 `json:"to_id"`
	ToName     string `json:"to_name"`
	ToNodeType string `json:"to_node_type"`
	ToSelfSize int64  `json:"to_self_size"`
}

// DetailBucket is one self-size histogram bucket.
type DetailBucket struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   *int64 `json:"max"`
	Count int64  `json:"count"`
}

// Detail is the output of the detail kernel, by id or by name. Mode is
// "by_id" or "by_name"; fields not meaningful for the chosen mode are
// left at their zero value.
type Detail struct {
	Version   int    `json:"version"`
	Mode      string `json:"mode"`

	// by_id only
	NodeIndex int    `json:"node_index,omitempty"`
	Id        *int64 `json:"id,omitempty"`
	NodeType  string `json:"node_type,omitempty"`
	SelfSize  int64  `json:"self_size,omitempty"`

	Name        string          `json:"name"`
	TotalCount  int64           `json:"total_count"`
	SelfSizeSum int64           `json:"self_size_sum"`
	MaxSelfSize int64           `json:"max_self_size"`
	MinSelfSize int64           `json:"min_self_size"`
	AvgSelfSize float64         `json:"avg_self_size"`
	Ids         []DetailNodeRef `json:"ids"`
	Skip        int             `json:"skip"`
	Limit       int             `json:"limit"`
	TotalIds    int64           `json:"total_ids"`

	// by_id only
	Retainers               []DetailRetainer     `json:"retainers,omitempty"`
	OutgoingEdges           []DetailOutgoingEdge  `json:"outgoing_edges,omitempty"`
	ShallowSizeDistribution []DetailBucket        `json:"shallow_size_distribution,omitempty"`
}
