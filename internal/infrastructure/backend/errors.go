package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RejectedError is a failure the backend answered with an explanation.
// Message is shown to the cashier as is.
type RejectedError struct {
	Operation string
	Status    int
	Message   string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// TransportError is a failure to reach the backend or to read its answer
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// errorEnvelope covers the ways a Frappe-style server reports a failure
type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message json.RawMessage `json:"message"`
	ExcType string          `json:"exc_type"`
}

// extractMessage returns the first human-readable failure text in body,
// checking error, then message, then exc_type. fallback is used when none is found.
func extractMessage(body []byte, fallback string) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fallback
	}
	for _, raw := range []json.RawMessage{env.Error, env.Message} {
		if s := rawString(raw); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(env.ExcType); s != "" {
		return s
	}
	return fallback
}

// rawString accepts only a JSON string; objects and arrays are payloads, not messages
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
