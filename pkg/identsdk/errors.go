package identsdk

import "fmt"

// APIError represents a non-2xx response from the identity service. It
// carries the HTTP status and the server's message so callers can branch on
// the status while still surfacing a readable error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity api: %d: %s", e.StatusCode, e.Message)
}
