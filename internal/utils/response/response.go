// Package response provides helpers for writing the JSON envelopes
// every handler returns. Centralising them keeps the shapes consistent
// for API consumers: every body carries a boolean success flag, error
// bodies carry either a single message or the full list of validation
// messages, and listing bodies add count and pagination.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/hackfest-dev/hackathon-api/internal/query"
)

// Generic messages returned for conditions whose detail must not leak.
const (
	MsgServerError         = "Server Error"
	MsgInvalidID           = "Invalid participant ID"
	MsgNotFound            = "Participant not found"
	MsgInvalidVerification = "Invalid verification parameters"
)

// Body is the standard envelope. Error is either a string or a
// []string (validation failures); Data is omitted on errors.
type Body struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// List is the envelope for paginated listings.
type List struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination query.Pagination `json:"pagination"`
	Data       any              `json:"data"`
}

// WriteJSON writes a JSON-encoded response with the given status code.
// Header order matters: Content-Type must be set before WriteHeader.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps a success payload.
func OK(data any) Body {
	return Body{Success: true, Data: data}
}

// Err wraps a single error message.
func Err(msg string) Body {
	return Body{Success: false, Error: msg}
}

// ValidationErrs wraps the full list of validation messages. The list
// is returned whole, never truncated to the first failure.
func ValidationErrs(msgs []string) Body {
	return Body{Success: false, Error: msgs}
}
