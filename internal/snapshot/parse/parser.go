// Package parse implements the streaming JSON reader that turns a V8
// heap snapshot file into a model.SnapshotRaw without materializing
// per-record objects for the large nodes/edges/strings arrays.
package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/lenient"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/progress"
	"github.com/kavanlund/heapsnap/internal/snapshot/snaperr"
)

// progressStride is how many appended scalars trigger a progress event.
// The exact cadence is unobservable to callers by design (spec §4.2).
const progressStride = 1_000_000

// cancelStride is how many appended scalars pass between cancel-flag
// checks; record boundaries for the large arrays, not mid-token.
const cancelStride = 1 << 16

// Options configures a single Read call.
type Options struct {
	Cancel   *cancel.Token
	Progress progress.Sink
	Logger   *slog.Logger // defaults to slog.Default() when nil
}

func defaultLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// Read consumes a lenient byte stream positioned at the start of a JSON
// object and produces a model.SnapshotRaw. It recognizes only the
// top-level keys snapshot, nodes, edges, strings; everything else is
// skipped by balanced token recognition.
func Read(src io.Reader, opts Options) (*model.SnapshotRaw, error) {
	logger := defaultLogger(opts.Logger)
	lr := lenient.New(src, logger)
	dec := json.NewDecoder(lr)
	dec.UseNumber()

	p := &parser{dec: dec, opts: opts, logger: logger}

	if err := p.readTopLevel(); err != nil {
		return nil, err
	}

	if p.meta == nil {
		return nil, &snaperr.MetaBindingError{Missing: []string{"snapshot.meta"}}
	}
	bound, err := model.Bind(*p.meta)
	if err != nil {
		return nil, err
	}

	raw := &model.SnapshotRaw{
		Nodes:   p.nodes,
		Edges:   p.edges,
		Strings: p.strings,
		Meta:    bound,
	}

	if bound.NodeWidth == 0 || len(raw.Nodes)%bound.NodeWidth != 0 {
		return nil, &snaperr.MalformedJson{Offset: -1, Key: "nodes", Err: fmt.Errorf("nodes length %d not a multiple of node width %d", len(raw.Nodes), bound.NodeWidth)}
	}
	if bound.EdgeWidth == 0 || len(raw.Edges)%bound.EdgeWidth != 0 {
		return nil, &snaperr.MalformedJson{Offset: -1, Key: "edges", Err: fmt.Errorf("edges length %d not a multiple of edge width %d", len(raw.Edges), bound.EdgeWidth)}
	}

	raw.BuildEdgeRangeTable()
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	progress.Emit(opts.Progress, progress.Event{Stage: "parse", Done: int64(len(raw.Nodes) + len(raw.Edges) + len(raw.Strings)), Message: "parse complete"})
	logger.Debug("parse: complete", "nodes", raw.NodeCount(), "edges", raw.EdgeCount(), "strings", len(raw.Strings))

	return raw, nil
}

type parser struct {
	dec    *json.Decoder
	opts   Options
	logger *slog.Logger

	meta    *model.SnapshotMeta
	nodes   []int64
	edges   []int64
	strings []string

	appended int64 // running count, for progress/cancel cadence
}

func (p *parser) readTopLevel() error {
	if err := p.expectDelim('{'); err != nil {
		return err
	}

	for p.dec.More() {
		key, err := p.nextStringToken("top-level object")
		if err != nil {
			return err
		}

		switch key {
		case "snapshot":
			if err := p.readSnapshotObject(); err != nil {
				return err
			}
		case "nodes":
			if err := p.readInt64Array("nodes", &p.nodes); err != nil {
				return err
			}
		case "edges":
			if err := p.readInt64Array("edges", &p.edges); err != nil {
				return err
			}
		case "strings":
			if err := p.readStringArray("strings", &p.strings); err != nil {
				return err
			}
		default:
			if err := p.skipValue(); err != nil {
				return err
			}
		}
	}

	return p.expectDelim('}')
}

func (p *parser) readSnapshotObject() error {
	if err := p.expectDelim('{'); err != nil {
		return p.wrap("snapshot", err)
	}
	for p.dec.More() {
		key, err := p.nextStringToken("snapshot")
		if err != nil {
			return err
		}
		if key == "meta" {
			meta, err := p.readMeta()
			if err != nil {
				return err
			}
			p.meta = meta
		} else {
			if err := p.skipValue(); err != nil {
				return err
			}
		}
	}
	return p.expectDelim('}')
}

// metaWire mirrors snapshot.meta's JSON shape before field kinds are
// resolved: node_types/edge_types entries are each either an array of
// strings (enum) or a bare string naming a primitive ("number", "string",
// "string_or_number").
type metaWire struct {
	NodeFields []string          `json:"node_fields"`
	NodeTypes  []json.RawMessage `json:"node_types"`
	EdgeFields []string          `json:"edge_fields"`
	EdgeTypes  []json.RawMessage `json:"edge_types"`
}

func (p *parser) readMeta() (*model.SnapshotMeta, error) {
	var wire metaWire
	if err := p.dec.Decode(&wire); err != nil {
		return nil, p.wrap("meta", err)
	}

	nodeKinds, err := decodeFieldKinds(wire.NodeTypes)
	if err != nil {
		return nil, p.wrap("meta", err)
	}
	edgeKinds, err := decodeFieldKinds(wire.EdgeTypes)
	if err != nil {
		return nil, p.wrap("meta", err)
	}

	return &model.SnapshotMeta{
		NodeFieldNames: wire.NodeFields,
		NodeFieldKinds: nodeKinds,
		EdgeFieldNames: wire.EdgeFields,
		EdgeFieldKinds: edgeKinds,
	}, nil
}

func decodeFieldKinds(raw []json.RawMessage) ([]model.FieldKind, error) {
	kinds := make([]model.FieldKind, len(raw))
	for i, r := range raw {
		var enum []string
		if err := json.Unmarshal(r, &enum); err == nil {
			kinds[i] = model.FieldKind{Enum: enum}
			continue
		}
		var prim string
		if err := json.Unmarshal(r, &prim); err != nil {
			return nil, fmt.Errorf("field kind %d is neither an enum array nor a primitive name: %w", i, err)
		}
		kinds[i] = model.FieldKind{Primitive: prim}
	}
	return kinds, nil
}

func (p *parser) readInt64Array(key string, dst *[]int64) error {
	if err := p.expectDelim('['); err != nil {
		return p.wrap(key, err)
	}
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return p.wrap(key, err)
		}
		num, ok := tok.(json.Number)
		if !ok {
			return p.wrap(key, fmt.Errorf("expected number, got %v", tok))
		}
		v, err := num.Int64()
		if err != nil {
			return p.wrap(key, fmt.Errorf("numeric overflow: %w", err))
		}
		*dst = append(*dst, v)
		if err := p.tickInt64(len(*dst)); err != nil {
			return err
		}
	}
	return p.expectDelim(']')
}

func (p *parser) readStringArray(key string, dst *[]string) error {
	if err := p.expectDelim('['); err != nil {
		return p.wrap(key, err)
	}
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return p.wrap(key, err)
		}
		s, ok := tok.(string)
		if !ok {
			return p.wrap(key, fmt.Errorf("expected string, got %v", tok))
		}
		*dst = append(*dst, s)
		if err := p.tickInt64(len(*dst)); err != nil {
			return err
		}
	}
	return p.expectDelim(']')
}

// tickInt64 is the cancel/progress cadence check shared by the large
// array readers, at record boundaries.
func (p *parser) tickInt64(n int) error {
	p.appended++
	if p.opts.Cancel != nil && p.appended%cancelStride == 0 && p.opts.Cancel.Cancelled() {
		return &snaperr.Cancelled{Op: "parse"}
	}
	if p.appended%progressStride == 0 {
		progress.Emit(p.opts.Progress, progress.Event{Stage: "parse", Done: p.appended, Message: "parsing"})
	}
	return nil
}

func (p *parser) skipValue() error {
	depth := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.wrap("", err)
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
		if depth == 0 {
			return nil
		}
	}
}

func (p *parser) expectDelim(want rune) error {
	tok, err := p.dec.Token()
	if err != nil {
		return p.wrap("", err)
	}
	d, ok := tok.(json.Delim)
	if !ok || rune(d) != want {
		return p.wrap("", fmt.Errorf("expected delimiter %q, got %v", want, tok))
	}
	return nil
}

func (p *parser) nextStringToken(context string) (string, error) {
	tok, err := p.dec.Token()
	if err != nil {
		return "", p.wrap(context, err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", p.wrap(context, fmt.Errorf("expected object key, got %v", tok))
	}
	return s, nil
}

func (p *parser) wrap(key string, err error) error {
	if err == io.EOF {
		err = fmt.Errorf("premature end of file")
	}
	return &snaperr.MalformedJson{Offset: p.dec.InputOffset(), Key: key, Err: err}
}
