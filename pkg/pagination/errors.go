package pagination

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by collaborators. The traverser never translates
// errors; it returns whatever the transport or decoder produced.
var (
	ErrTransport = errors.New("transport error")
	ErrDecode    = errors.New("decode error")
)

// TransportError reports a failed GET: network failure or a non-2xx response.
type TransportError struct {
	URI        string
	StatusCode int    // 0 when no response was received
	Code       string // remote fault code, if the body carried one
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Code != "":
		return fmt.Sprintf("%s: GET %s: http %d: %s: %s", ErrTransport, e.URI, e.StatusCode, e.Code, e.Message)
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: GET %s: http %d: %v", ErrTransport, e.URI, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: GET %s: http %d", ErrTransport, e.URI, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: GET %s: %v", ErrTransport, e.URI, e.Err)
	default:
		return fmt.Sprintf("%s: GET %s", ErrTransport, e.URI)
	}
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// DecodeError reports a response body that could not be turned into a page.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// NewDecodeError builds a DecodeError from a formatted message; %w verbs keep the cause.
func NewDecodeError(format string, args ...any) error {
	return &DecodeError{Err: fmt.Errorf(format, args...)}
}
