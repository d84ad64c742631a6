package output

import (
	"github.com/kavanlund/heapsnap/internal/snapshot/detail"
	"github.com/kavanlund/heapsnap/internal/snapshot/diffkernel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/retainers"
	"github.com/kavanlund/heapsnap/internal/snapshot/summary"
)

// FromSummary converts the summary kernel's result, truncating to the
// top N rows already sorted by descending self_size_sum when top > 0.
func FromSummary(r *summary.Result, top int) Summary {
	rows := make([]SummaryRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = SummaryRow{
			Name:           row.Name,
			Count:          row.Count,
			SelfSizeSum:    row.SelfSizeSum,
			EmptyNameTypes: row.EmptyNameTypes,
		}
	}
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return Summary{Version: SchemaVersion, TotalNodes: r.TotalNodes, Rows: rows}
}

// FromDiff converts the diff kernel's result, truncating to the top N
// rows already sorted by descending |self_size_sum_delta| when top > 0.
func FromDiff(r *diffkernel.Result, top int) Diff {
	rows := make([]DiffRow, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = DiffRow{
			Name:             row.Name,
			CountA:           row.CountA,
			CountB:           row.CountB,
			CountDelta:       row.CountDelta,
			SelfSizeSumA:     row.SelfSizeSumA,
			SelfSizeSumB:     row.SelfSizeSumB,
			SelfSizeSumDelta: row.SelfSizeSumDelta,
		}
	}
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return Diff{Version: SchemaVersion, TotalNodesA: r.TotalNodesA, TotalNodesB: r.TotalNodesB, Rows: rows}
}

func FromRetainers(raw *model.SnapshotRaw, r *retainers.Result) Retainers {
	target := model.NodeView{Raw: raw, Index: r.Target}
	id := target.Id()

	paths := make([]RetainerPath, len(r.Paths))
	for i, p := range r.Paths {
		steps := make([]RetainerStep, len(p.Steps))
		for j, s := range p.Steps {
			edge := model.EdgeView{Raw: raw, Index: s.Edge}
			steps[j] = RetainerStep{
				From: s.From,
				Edge: RetainerEdge{
					Index:       s.Edge,
					EdgeType:    edge.TypeName(),
					NameOrIndex: edge.NameOrIndex(),
					Name:        edge.ResolvedName(),
				},
				To: s.To,
			}
		}
		paths[i] = RetainerPath{Steps: steps}
	}

	return Retainers{
		Version: SchemaVersion,
		Target: RetainerTarget{
			Index:    r.Target,
			Id:       &id,
			Name:     target.Name(),
			NodeType: target.TypeName(),
		},
		Paths: paths,
	}
}

func FromDominator(target int, chain []int) Dominator {
	return Dominator{Version: SchemaVersion, Target: target, Chain: chain}
}

func FromDetailById(d *detail.ById) Detail {
	id := d.Id
	return Detail{
		Version:                 SchemaVersion,
		Mode:                    "by_id",
		NodeIndex:                d.NodeIndex,
		Id:                      &id,
		NodeType:                d.NodeType,
		SelfSize:                d.SelfSize,
		Name:                    d.Name,
		TotalCount:              d.Stats.TotalCount,
		SelfSizeSum:             d.Stats.SelfSizeSum,
		MaxSelfSize:             d.Stats.MaxSelfSize,
		MinSelfSize:             d.Stats.MinSelfSize,
		AvgSelfSize:             d.Stats.AvgSelfSize,
		Ids:                     fromNodeRefs(d.Stats.Ids),
		Skip:                    d.Stats.Skip,
		Limit:                   d.Stats.Limit,
		TotalIds:                d.Stats.TotalIds,
		Retainers:               fromRetainerSummaries(d.Retainers),
		OutgoingEdges:           fromOutgoingEdgeSummaries(d.OutgoingEdges),
		ShallowSizeDistribution: fromBuckets(d.ShallowSizeDistribution),
	}
}

func FromDetailByName(d *detail.ByName) Detail {
	return Detail{
		Version:     SchemaVersion,
		Mode:        "by_name",
		Name:        d.Stats.Name,
		TotalCount:  d.Stats.TotalCount,
		SelfSizeSum: d.Stats.SelfSizeSum,
		MaxSelfSize: d.Stats.MaxSelfSize,
		MinSelfSize: d.Stats.MinSelfSize,
		AvgSelfSize: d.Stats.AvgSelfSize,
		Ids:         fromNodeRefs(d.Stats.Ids),
		Skip:        d.Stats.Skip,
		Limit:       d.Stats.Limit,
		TotalIds:    d.Stats.TotalIds,
	}
}

func fromNodeRefs(refs []detail.NodeRef) []DetailNodeRef {
	out := make([]DetailNodeRef, len(refs))
	for i, r := range refs {
		id := r.Id
		out[i] = DetailNodeRef{Index: r.Index, Id: &id, NodeType: r.NodeType, SelfSize: r.SelfSize}
	}
	return out
}

func fromRetainerSummaries(items []detail.RetainerSummary) []DetailRetainer {
	out := make([]DetailRetainer, len(items))
	for i, r := range items {
		id := r.FromId
		out[i] = DetailRetainer{
			FromIndex:    r.FromIndex,
			FromId:       &id,
			FromName:     r.FromName,
			FromNodeType: r.FromNodeType,
			FromSelfSize: r.FromSelfSize,
			EdgeIndex:    r.EdgeIndex,
			EdgeType:     r.EdgeType,
			EdgeName:     r.EdgeName,
		}
	}
	return out
}

func fromOutgoingEdgeSummaries(items []detail.OutgoingEdgeSummary) []DetailOutgoingEdge {
	out := make([]DetailOutgoingEdge, len(items))
	for i, e := range items {
		id := e.ToId
		out[i] = DetailOutgoingEdge{
			EdgeIndex:  e.EdgeIndex,
			EdgeType:   e.EdgeType,
			EdgeName:   e.EdgeName,
			ToIndex:    e.ToIndex,
			ToId:       &id,
			ToName:     e.ToName,
			ToNodeType: e.ToNodeType,
			ToSelfSize: e.ToSelfSize,
		}
	}
	return out
}

func fromBuckets(buckets []detail.ShallowSizeBucket) []DetailBucket {
	out := make([]DetailBucket, len(buckets))
	for i, b := range buckets {
		out[i] = DetailBucket{Label: b.Label, Min: b.Min, Max: b.Max, Count: b.Count}
	}
	return out
}
