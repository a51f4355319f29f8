package blog

// error_response.go implements the error response format returned by the blog API
// and maps lower level errors to it.

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
)

// ErrorResponse is the JSON body returned for every failed request
type ErrorResponse struct {

	// The HTTP method used to make the request e.g. GET, POST, etc
	HTTPMethod string `json:"httpMethod" example:"POST"`

	// The URI that was requested
	RequestURI string `json:"requestUri" example:"/posts"`

	// The HTTP status code returned
	StatusCode int `json:"statusCode" example:"400"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText" example:"Bad Request"`

	// A long description corresponding to the HTTP status code with additional information
	StatusCodeMessage string `json:"statusCodeMessage,omitempty" example:"Validation failed"`

	// The request id assigned by the server (also logged server-side)
	RequestID string `json:"requestId,omitempty" example:"host/abcdef-000001"`

	// The DateTime corresponding to the error occurring
	ErrorDateTime string `json:"errorDateTime" example:"2024-01-28T10:00:00Z"`

	// An array of errors providing more detail about the root cause
	Errors []DetailedError `json:"errors"`
}

// DetailedError represents a detailed error in the error response
type DetailedError struct {
	ErrorCode        ErrorCode `json:"errorCode" example:"7002"`
	Property         string    `json:"property,omitempty" example:"title"`
	ErrorCodeText    string    `json:"errorCodeText" example:"Validation failed"`
	ErrorCodeMessage string    `json:"errorCodeMessage" example:"missing required field(s): title"`
}

// MapErrorToResponse maps a BlogError (or a generic error) to an ErrorResponse.
//
// Internal errors are returned with a generic message: the full error is only logged server-side.
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	var blogErr *BlogError
	if errors.As(err, &blogErr) {
		return errorResponseFromBlog(blogErr, r, requestID)
	}

	// fallback - this is not expected - if it does happen, return an internal error response and log the unmapped error
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("BUG: Unmapped error type in MapErrorToResponse",
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()),
		slog.String("request_id", requestID),
	)
	return newErrorResponse(r, requestID, http.StatusInternalServerError, DetailedError{
		ErrorCode:        ErrCodeInternalError,
		ErrorCodeText:    "Internal Error",
		ErrorCodeMessage: "An internal error occurred",
	})
}

// errorResponseFromBlog maps a BlogError to the status code and error text
func errorResponseFromBlog(err *BlogError, r *http.Request, requestID string) *ErrorResponse {
	var statusCode int
	var errorCodeText string

	message := err.Error()

	switch err.Code() {
	case ErrCodeMalformedRequest:
		statusCode = http.StatusBadRequest
		errorCodeText = "Malformed request"
	case ErrCodeValidation:
		statusCode = http.StatusBadRequest
		errorCodeText = "Validation failed"
	case ErrCodeInvalidID:
		statusCode = http.StatusBadRequest
		errorCodeText = "Invalid id"
	case ErrCodeNotFound:
		statusCode = http.StatusNotFound
		errorCodeText = "Not found"
	case ErrCodeRateLimitExceeded:
		statusCode = http.StatusTooManyRequests
		errorCodeText = "Rate limit exceeded"
	case ErrCodeRequestTooLarge:
		statusCode = http.StatusRequestEntityTooLarge
		errorCodeText = "Request too large"
	default:
		statusCode = http.StatusInternalServerError
		errorCodeText = "Internal Error"
		// don't leak store or driver errors to the client
		message = err.Message()
	}

	return newErrorResponse(r, requestID, statusCode, DetailedError{
		ErrorCode:        err.Code(),
		Property:         err.Property(),
		ErrorCodeText:    errorCodeText,
		ErrorCodeMessage: message,
	})
}

func newErrorResponse(r *http.Request, requestID string, statusCode int, detail DetailedError) *ErrorResponse {
	return &ErrorResponse{
		HTTPMethod:        r.Method,
		RequestURI:        r.RequestURI,
		StatusCode:        statusCode,
		StatusCodeText:    http.StatusText(statusCode),
		StatusCodeMessage: detail.ErrorCodeText,
		RequestID:         requestID,
		ErrorDateTime:     time.Now().UTC().Format(time.RFC3339),
		Errors:            []DetailedError{detail},
	}
}
