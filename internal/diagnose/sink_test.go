package diagnose

import "testing"

func TestSink(t *testing.T) {
	var s Sink
	if s.HasErrors() {
		t.Error("empty sink reports errors")
	}

	s.Add(Warning(KindCompat, CodeCompat, NewSpan(8, 9), "w"))
	if s.HasErrors() {
		t.Error("warning-only sink reports errors")
	}

	s.Add(Error(KindSyntax, CodeUnknownToken, NewSpan(0, 1), "e"))
	if !s.HasErrors() {
		t.Error("sink missed an error")
	}

	taken := s.Take()
	if len(taken) != 2 {
		t.Fatalf("Take returned %d diagnostics, want 2", len(taken))
	}
	if taken[0].Message != "e" || taken[1].Message != "w" {
		t.Errorf("Take not sorted by span: %v", taken)
	}

	if s.HasErrors() {
		t.Error("sink not reset after Take")
	}
	if len(s.Take()) != 0 {
		t.Error("second Take returned diagnostics")
	}
}
