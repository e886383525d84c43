package beeminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrStatusCode matches, via errors.Is, any RemoteError caused by a non-successful HTTP status.
var ErrStatusCode = errors.New("unhandled status code")

// ErrorKind classifies remote failures.
type ErrorKind int

const (
	KindUnknown    ErrorKind = iota
	KindNetwork              // No response at all
	KindAuth                 // 401, 403
	KindNotFound             // 404
	KindValidation           // 400, 422
	KindServer               // 5xx
	KindProtocol             // 2xx, but the body could not be decoded
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "authentication"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

func kindOf(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// RemoteError is returned by all Client methods that fail.
type RemoteError struct {
	Op      string // e.g. "create datapoint"
	Status  int    // Zero if no response was received
	Kind    ErrorKind
	Message string // As provided by the service, if any
	Err     error  // Underlying transport or decoding error, if any
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStatusCode and the error was caused by an HTTP status.
func (e *RemoteError) Is(target error) bool {
	return target == ErrStatusCode && e.Status != 0 && (e.Status < 200 || e.Status > 299)
}

// serviceMessage extracts a human-readable message from an error response body. Beeminder reports errors as
// {"errors": "..."}, {"errors": {"field": ["..."]}} or {"error": "..."} depending on the endpoint.
func serviceMessage(body []byte) string {
	var v struct {
		Errors  json.RawMessage `json:"errors"`
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, raw := range []json.RawMessage{v.Errors, v.Error} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}
	if v.Message != "" {
		return v.Message
	}
	return strings.TrimSpace(string(body))
}
