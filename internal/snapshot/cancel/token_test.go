package cancel

import "testing"

func TestNewTokenStartsUncancelled(t *testing.T) {
	tok := New()
	if tok.Cancelled() {
		t.Error("fresh token should not report cancelled")
	}
}

func TestCancelSetsFlag(t *testing.T) {
	tok := New()
	tok.Cancel()
	if !tok.Cancelled() {
		t.Error("Cancelled() should be true after Cancel()")
	}
}

func TestNilTokenIsNeverCancelled(t *testing.T) {
	var tok *Token
	if tok.Cancelled() {
		t.Error("nil token should never report cancelled")
	}
}

func TestCancelOnNilTokenDoesNotPanic(t *testing.T) {
	var tok *Token
	tok.Cancel()
}
