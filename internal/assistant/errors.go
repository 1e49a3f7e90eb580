package assistant

import "fmt"

// ValidationError rejects a request before the pipeline starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrMissingSessionID is returned by HandleMessage for a blank session_id.
var ErrMissingSessionID = &ValidationError{Field: "session_id", Message: "session_id is required"}
