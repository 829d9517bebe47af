package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks responses where the server has no data for the
// request (missing day log, empty report range). Callers should treat
// it as empty state rather than a failure: errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("not found")

// Error is the typed failure returned for every non-transport API
// problem: bad status codes, envelopes with success=false, and
// responses that do not decode as an envelope at all.
type Error struct {
	Op         string
	StatusCode int
	Message    string

	notFound bool
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.notFound {
		return ErrNotFound
	}
	return nil
}

// newError classifies the failure once at the service boundary, so no
// caller ever has to substring-match a message to recognize not-found.
func newError(op string, statusCode int, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	lower := strings.ToLower(message)
	return &Error{
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
		notFound:   statusCode == 404 || strings.Contains(lower, "not found"),
	}
}
