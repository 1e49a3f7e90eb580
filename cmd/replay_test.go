package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
)

func TestReadScriptFile(t *testing.T) {
	path := filepath.Join("..", "testdata", "scripts", "flight_then_booking.txt")
	messages, err := readScript(path, nil)
	if err != nil {
		t.Fatalf("readScript: %v", err)
	}

	want := []string{
		"Hi there!",
		"Find me a flight from New York to London on 2026-12-01 for 2 people",
		"I'd like to book the cheapest one",
	}
	if len(messages) != len(want) {
		t.Fatalf("got %d messages, want %d: %q", len(messages), len(want), messages)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, messages[i], want[i])
		}
	}
}

func TestReadScriptStdin(t *testing.T) {
	messages, err := readScript("-", strings.NewReader("  hello  \n\n# skip\nbye\n"))
	if err != nil {
		t.Fatalf("readScript: %v", err)
	}
	if len(messages) != 2 || messages[0] != "hello" || messages[1] != "bye" {
		t.Errorf("messages = %q", messages)
	}
}

func TestReadScriptMissing(t *testing.T) {
	if _, err := readScript(filepath.Join(t.TempDir(), "nope.txt"), nil); err == nil {
		t.Fatal("expected error for missing script")
	}
}

func TestPrintResponse(t *testing.T) {
	ents := assistant.ParseEntities(map[string]any{"origin": "NYC", "passengers": 2})
	resp := &assistant.Response{
		Message:  "Here are your flights.",
		Intent:   assistant.IntentSearchFlight,
		Entities: ents,
		Results:  []any{"a", "b"},
		UIElements: []assistant.UIElement{
			{Type: "button", Text: "Book", Action: "book"},
		},
		SessionID: "s1",
	}

	var buf bytes.Buffer
	if err := printResponse(&buf, resp, false); err != nil {
		t.Fatalf("printResponse: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Here are your flights.",
		"intent:  search_flight",
		"entities: origin=NYC, passengers=2",
		"results: 2",
		"[button] Book",
		"session: s1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := printResponse(&buf, &assistant.Response{Message: "hi"}, true); err != nil {
		t.Fatalf("printResponse json: %v", err)
	}
	if !strings.Contains(buf.String(), `"message": "hi"`) {
		t.Errorf("json output = %s", buf.String())
	}
}
