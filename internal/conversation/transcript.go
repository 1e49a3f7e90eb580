package conversation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// TranscriptMarkdown renders chronological entries as a Markdown document.
func TranscriptMarkdown(sessionID string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Conversation %s\n\n", sessionID)
	if len(entries) == 0 {
		b.WriteString("_No messages._\n")
		return b.String()
	}
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		speaker := "User"
		if e.Role == RoleAssistant {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "**%s** · %s\n\n%s\n", speaker, e.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"), e.Content)
	}
	return b.String()
}

// RenderTranscript converts the Markdown transcript to HTML. Raw HTML in
// message content is escaped.
func RenderTranscript(sessionID string, entries []Entry) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(TranscriptMarkdown(sessionID, entries)), &buf); err != nil {
		return "", fmt.Errorf("rendering transcript: %w", err)
	}
	return buf.String(), nil
}
