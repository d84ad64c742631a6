package lenient

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func readAll(t *testing.T, src string) string {
	t.Helper()
	r := New(strings.NewReader(src), nil)
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(out)
}

func TestPassesCleanJSONUnchanged(t *testing.T) {
	src := `{"a": "hello world", "b": [1, 2, 3]}`
	got := readAll(t, src)
	if got != src {
		t.Errorf("clean JSON was modified:\n got: %q\nwant: %q", got, src)
	}
}

func TestPreservesValidSurrogatePair(t *testing.T) {
	src := `{"s": "😀"}`
	got := readAll(t, src)
	if got != src {
		t.Errorf("valid surrogate pair was rewritten:\n got: %q\nwant: %q", got, src)
	}
}

func TestPreservesEscapedSurrogatePair(t *testing.T) {
	// A literal \uD83D\uDE00 escape pair (U+1F600 GRINNING FACE), not a raw
	// UTF-8 emoji byte sequence: this is what actually exercises the
	// high-surrogate/low-surrogate escape handling in process().
	src := "{\"s\": \"\\uD83D\\uDE00end\"}"
	got := readAll(t, src)
	if got != src {
		t.Errorf("escaped surrogate pair was rewritten:\n got: %q\nwant: %q", got, src)
	}
}

func TestPreservesEscapedSurrogatePairAcrossChunkBoundary(t *testing.T) {
	src := "{\"s\": \"\\uD83D\\uDE00end\"}"
	r := New(&oneByteReader{data: []byte(src)}, nil)
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(out) != src {
		t.Errorf("got %q, want %q", out, src)
	}
}

func TestRewritesLoneHighSurrogate(t *testing.T) {
	src := `{"s": "\uD800end"}`
	got := readAll(t, src)
	want := "{\"s\": \"\\uFFFDend\"}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewritesLoneLowSurrogate(t *testing.T) {
	src := `{"s": "\uDC00end"}`
	got := readAll(t, src)
	want := "{\"s\": \"\\uFFFDend\"}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLeavesEscapesOutsideStringsAlone(t *testing.T) {
	src := `{"a\\b": "c"}`
	got := readAll(t, src)
	if got != src {
		t.Errorf("non-string content was modified:\n got: %q\nwant: %q", got, src)
	}
}

func TestCountsSurrogatesRewritten(t *testing.T) {
	src := `{"s": "𐀀x\uD9FF"}`
	r := New(strings.NewReader(src), nil)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if r.SurrogatesRewritten != 1 {
		t.Errorf("SurrogatesRewritten = %d, want 1 (only the trailing unpaired \\uD9FF)", r.SurrogatesRewritten)
	}
}

func TestRewrittenSurrogateIsWarnLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	src := `{"s": "\uD800end"}`
	r := New(strings.NewReader(src), logger)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.Contains(buf.String(), "lenient: rewrote lone") {
		t.Errorf("expected a Warn log for the rewritten surrogate, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected WARN level, got: %q", buf.String())
	}
}

func TestHandlesChunkBoundarySplitAcrossMultipleReads(t *testing.T) {
	// A surrogate pair escape is 12 bytes; feed the reader in awkward
	// small pieces via a reader that only ever returns 1 byte at a time.
	src := "{\"s\": \"\\uD83D\\uDE00tail\"}"
	r := New(&oneByteReader{data: []byte(src)}, nil)
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(out) != src {
		t.Errorf("got %q, want %q", out, src)
	}
}

type oneByteReader struct {
	data []byte
	pos  int
}

func (o *oneByteReader) Read(p []byte) (int, error) {
	if o.pos >= len(o.data) {
		return 0, io.EOF
	}
	p[0] = o.data[o.pos]
	o.pos++
	return 1, nil
}
