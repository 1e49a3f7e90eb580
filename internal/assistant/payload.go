package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var fencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// errEmptyPayload is returned when a completion carries nothing to parse.
var errEmptyPayload = errors.New("empty payload")

// fencedJSON returns the body of the first ```json block, or the whole
// text when there is none.
func fencedJSON(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// decodePayload locates the JSON payload in a completion, validates it
// against schema and decodes it into out.
func decodePayload(text string, schema *gojsonschema.Schema, out any) error {
	raw := fencedJSON(text)
	if raw == "" {
		return errEmptyPayload
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("payload is not JSON: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating payload: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("payload does not match schema: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid schema: %v", err))
	}
	return s
}

var extractionSchema = mustSchema(`{
	"type": "object",
	"required": ["intent"],
	"properties": {
		"intent": {
			"type": "string",
			"enum": ["search_flight", "search_hotel", "book_trip", "general_inquiry", "greeting"]
		},
		"entities": {"type": ["object", "null"]}
	}
}`)

var responseSchema = mustSchema(`{
	"type": "object",
	"required": ["message"],
	"properties": {
		"message": {"type": "string", "minLength": 1},
		"ui_elements": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["type", "text", "action"],
				"properties": {
					"type": {"type": "string", "enum": ["button", "link", "card"]},
					"text": {"type": "string"},
					"action": {"type": "string"},
					"data": {"type": ["object", "null"]}
				}
			}
		}
	}
}`)
