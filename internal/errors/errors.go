package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for translation at the transport boundary.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// Error categories rendered in the "error" field of failure envelopes.
const (
	CategoryValidation   = "Validation error"
	CategoryNotFound     = "Not found"
	CategoryForbidden    = "Forbidden"
	CategoryUnauthorized = "Authentication failed"
	CategoryInternal     = "Internal server error"
)

// Error is a typed domain failure raised by the service layer.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field messages for validation failures, keyed by wire name.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "validation failed"
}

// Validation builds a validation error from a field map.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// Field builds a validation error for a single field.
func Field(field, message string) *Error {
	return Validation(map[string]string{field: message})
}

// NotFound builds a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden builds an ownership error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Unauthorized builds an authentication error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Category   string
	// Message is either a string or a map of field errors.
	Message interface{}
}

func (e *HTTPError) Error() string {
	if s, ok := e.Message.(string); ok {
		return s
	}
	return e.Category
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, category string, message interface{}) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Category:   category,
		Message:    message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// domain error becomes a 500 carrying the raw error text.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, CategoryInternal, err.Error())
	}
	switch e.Kind {
	case KindValidation:
		if len(e.Fields) > 0 {
			return NewHTTPError(http.StatusBadRequest, CategoryValidation, e.Fields)
		}
		return NewHTTPError(http.StatusBadRequest, CategoryValidation, e.Message)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, CategoryNotFound, e.Message)
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, CategoryForbidden, e.Message)
	case KindUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, CategoryUnauthorized, e.Message)
	default:
		return NewHTTPError(http.StatusInternalServerError, CategoryInternal, err.Error())
	}
}

// RequestInfo echoes the request line in every response envelope.
type RequestInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Host   string `json:"host"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message interface{} `json:"message" swaggertype:"string"`
	Request RequestInfo `json:"request"`
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse(req RequestInfo) ErrorResponse {
	return ErrorResponse{
		Error:   e.Category,
		Message: e.Message,
		Request: req,
	}
}

// CategoryForStatus names the error category for a bare HTTP status.
func CategoryForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return CategoryUnauthorized
	case status == http.StatusForbidden:
		return CategoryForbidden
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status >= http.StatusInternalServerError:
		return CategoryInternal
	case status == http.StatusMethodNotAllowed:
		return "Method not allowed"
	default:
		return CategoryValidation
	}
}
