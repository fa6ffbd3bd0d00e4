package apperror

import "net/http"

// Kind classifies an error for callers that need more than an HTTP status,
// e.g. the notification payloads and structured logs.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInvariant  Kind = "invariant"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Kind    Kind   // Machine-readable classification
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind, status code and message.
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates a 400 error for malformed input.
func Validation(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message)
}

// NotFound creates a 404 error for a missing row.
func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message)
}

// Conflict creates a 409 error for overlapping state.
func Conflict(message string) *AppError {
	return New(KindConflict, http.StatusConflict, message)
}

// Invariant creates a 422 error for an operation that would break an internal invariant.
func Invariant(message string) *AppError {
	return New(KindInvariant, http.StatusUnprocessableEntity, message)
}
