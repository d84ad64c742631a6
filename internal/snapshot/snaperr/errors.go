// Package snaperr defines the typed error kinds the snapshot engine
// surfaces to its callers. The core never writes to stderr or a log
// directly; it always returns one of these.
package snaperr

import "fmt"

// IoError wraps a failure reading the underlying byte source.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// MalformedJson reports a tokenizer rejection. Offset is the byte position
// in the decorated input stream, when known; -1 otherwise.
type MalformedJson struct {
	Offset int64
	Key    string // top-level key being consumed, e.g. "nodes"
	Err    error
}

func (e *MalformedJson) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("malformed json at offset %d while reading %q: %v", e.Offset, e.Key, e.Err)
	}
	return fmt.Sprintf("malformed json at offset %d: %v", e.Offset, e.Err)
}

func (e *MalformedJson) Unwrap() error { return e.Err }

// MetaBindingError enumerates every required field the binder could not
// locate, or whose shape (scalar vs enum) did not match expectations.
type MetaBindingError struct {
	Missing []string
}

func (e *MetaBindingError) Error() string {
	return fmt.Sprintf("meta binding failed, missing or misshapen fields: %v", e.Missing)
}

// IndexOutOfRange reports a string-table or to_node reference beyond the
// bounds of the owning vector.
type IndexOutOfRange struct {
	Kind  string // "string" or "to_node"
	Value int64
	Limit int64
}

func (e *IndexOutOfRange) Error() string {
	return fmt.Sprintf("%s index %d out of range (limit %d)", e.Kind, e.Value, e.Limit)
}

// TargetNotFound reports a failed id or name lookup, with up to 10 nearby
// candidates for a name search.
type TargetNotFound struct {
	Query      string
	Candidates []string
}

func (e *TargetNotFound) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no node matches %q", e.Query)
	}
	return fmt.Sprintf("no node matches %q, nearest candidates: %v", e.Query, e.Candidates)
}

// AmbiguousTarget reports multiple matching nodes with no pick policy to
// disambiguate.
type AmbiguousTarget struct {
	Query string
	Count int
}

func (e *AmbiguousTarget) Error() string {
	return fmt.Sprintf("%d nodes match %q, specify a pick policy", e.Count, e.Query)
}

// DepthExhausted is informational: BFS stopped because it hit the max
// depth before collecting the requested number of paths. It is never
// returned as a failure from the public API, but kernels use it
// internally to distinguish "ran out of depth" from "ran out of graph".
type DepthExhausted struct {
	Depth int
}

func (e *DepthExhausted) Error() string {
	return fmt.Sprintf("depth %d exhausted before target paths were found", e.Depth)
}

// Cancelled reports that the shared cancel flag was observed mid-operation.
type Cancelled struct {
	Op string
}

func (e *Cancelled) Error() string {
	return fmt.Sprintf("%s cancelled", e.Op)
}
