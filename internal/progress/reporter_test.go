package progress

import (
	"bytes"
	"testing"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")

	var buf bytes.Buffer
	r := NewReporter(&buf, "Replaying")
	if _, ok := r.(*CIReporter); !ok {
		t.Fatalf("NewReporter() = %T, want *CIReporter", r)
	}

	r.Start(2)
	r.Update(1, "hello")
	r.Update(2, "find flights")
	r.Finish()

	want := "Replaying: 2 turn(s)\n[1/2] hello\n[2/2] find flights\nReplaying: done\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")

	var buf bytes.Buffer
	r := NewReporter(&buf, "Replaying")
	if _, ok := r.(*TerminalReporter); !ok {
		t.Fatalf("NewReporter() = %T, want *TerminalReporter", r)
	}

	r.Start(3)
	r.Update(1, "turn one")
	r.Finish()
}

func TestTerminalReporterWithoutStart(t *testing.T) {
	r := &TerminalReporter{}
	r.Update(1, "ignored")
	r.Finish()
}
