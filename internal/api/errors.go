// Package api provides error types for backend responses.
package api

import (
	"errors"
	"fmt"
	"strings"
)

// StatusError is returned when the backend answers with a non-2xx status.
// Body holds the response text as sent, so callers can show it verbatim.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s failed: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.StatusCode, body)
}

// AsStatusError unwraps err into a *StatusError if it carries one.
//
// Usage:
//
//	text, err := client.DeleteAll(ctx)
//	if se, ok := api.AsStatusError(err); ok {
//	    // server answered; se.Body is its text
//	}
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode == 404
}
