package extract

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
)

// Sentinel errors. Every error returned by a dispatch wraps one of them.
var (
	ErrMissingField = errors.New("missing field")
	ErrDecode       = errors.New("decode")
	ErrMisuse       = errors.New("misuse")
	ErrBodyTooLarge = errors.New("body too large")
	ErrRateLimited  = errors.New("rate limited")
	ErrPanic        = errors.New("handler panic")
)

// Misuse errors.
var (
	ErrBodyTaken          = fmt.Errorf("%w: body already taken", ErrMisuse)
	ErrRequestSpent       = fmt.Errorf("%w: request already dispatched", ErrMisuse)
	ErrAmbiguousExtractor = fmt.Errorf("%w: extractor implements both FromParts and FromRequest", ErrMisuse)
	ErrStateType          = fmt.Errorf("%w: state type mismatch", ErrMisuse)
)

// ExtractError reports which handler parameter failed to extract.
type ExtractError struct {
	Index int
	Type  reflect.Type
	Err   error
}

// Error returns the parameter position, type and cause.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract param %d (%s): %v", e.Index, e.Type, e.Err)
}

// Unwrap returns the cause.
func (e *ExtractError) Unwrap() error { return e.Err }

// StatusCode maps the cause to an HTTP status.
func (e *ExtractError) StatusCode() int { return ErrorStatus(e.Err) }

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError describes a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. A StatusCoder
// in the chain wins; otherwise the sentinel decides, falling back to
// http.StatusInternalServerError.
func ErrorStatus(err error) int {
	var ee *ExtractError
	if errors.As(err, &ee) {
		err = ee.Err
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}

	switch {
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
