package api

import (
	"errors"
	"fmt"
)

// StatusError is a non-2xx backend reply. Message carries the backend-provided
// human-readable text when the body had one; callers fall back to their own
// generic wording when it is empty.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// StatusOf extracts the HTTP status from an error chain, if any.
func StatusOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}
