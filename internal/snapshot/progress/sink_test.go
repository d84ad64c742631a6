package progress

import "testing"

func TestEmitCallsSinkWithEvent(t *testing.T) {
	var got Event
	Emit(func(ev Event) { got = ev }, Event{Stage: "parse", Done: 5, Total: 10})
	if got.Stage != "parse" || got.Done != 5 || got.Total != 10 {
		t.Errorf("Emit delivered %+v", got)
	}
}

func TestEmitWithNilSinkDoesNotPanic(t *testing.T) {
	Emit(nil, Event{Stage: "parse"})
}
