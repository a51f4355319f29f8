package blog

// errors.go defines the error codes used by the blog API

import "fmt"

// BlogError represents a structured error from the blog package.
type BlogError struct {
	// code is the blog API error code
	code ErrorCode

	// property is the name of the request field that caused the error (optional)
	property string

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *BlogError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *BlogError) Code() ErrorCode  { return e.code }
func (e *BlogError) Property() string { return e.property }
func (e *BlogError) Message() string  { return e.message }
func (e *BlogError) Unwrap() error    { return e.wrapped }

// ErrorCode is used in errors returned by the blog API.
//
//   - 7000-7999 technical errors: the request could not be processed because of a problem with the supplied data or the server.
//   - 8000-8999 functional errors: the request is technically valid but refers to something that does not exist.
type ErrorCode int

// Error codes used by the blog API
const (

	// ErrCodeMalformedRequest is used when the request body can't be parsed
	ErrCodeMalformedRequest ErrorCode = 7001

	// ErrCodeValidation is used when a required field is missing or a field value is not allowed
	ErrCodeValidation ErrorCode = 7002

	// ErrCodeInvalidID is used when the post id in the path is not in the format used by the store
	ErrCodeInvalidID ErrorCode = 7003

	// ErrCodeInternalError is used when an internal server error occurs
	ErrCodeInternalError ErrorCode = 7004

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded ErrorCode = 7005

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware
	ErrCodeRequestTooLarge ErrorCode = 7006

	// ErrCodeNotFound is used when the requested post does not exist
	ErrCodeNotFound ErrorCode = 8001
)

// NewMalformedRequestError creates an error for request bodies that are not valid JSON
// (or do not match the expected structure).
func NewMalformedRequestError(msg string) error {
	return &BlogError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps a JSON decoding error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &BlogError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewValidationError creates a validation error for a request field.
// property is the JSON path of the offending field and may be empty.
func NewValidationError(property, msg string) error {
	return &BlogError{code: ErrCodeValidation, property: property, message: msg}
}

// NewInvalidIDError is used when a post id is not in the format used by the store.
func NewInvalidIDError(id string) error {
	return &BlogError{code: ErrCodeInvalidID, property: "id", message: fmt.Sprintf("invalid post id: %q", id)}
}

// NewNotFoundError is used when no post exists with the requested id.
func NewNotFoundError(id string) error {
	return &BlogError{code: ErrCodeNotFound, property: "id", message: fmt.Sprintf("post %s not found", id)}
}

// WrapInternalError wraps an unexpected failure (store errors, encoding failures etc).
// The wrapped error is logged but not returned to the client.
func WrapInternalError(err error, msg string) error {
	return &BlogError{code: ErrCodeInternalError, message: msg, wrapped: err}
}

// NewRateLimitError creates a rate limit exceeded error.
func NewRateLimitError(msg string) error {
	return &BlogError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates a request too large error.
func NewRequestTooLargeError(msg string) error {
	return &BlogError{code: ErrCodeRequestTooLarge, message: msg}
}
