package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// sanity check that the error codes are in the correct range

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		errCode  ErrorCode
		wantCode int
	}{
		{"malformed_request", ErrCodeMalformedRequest, 7001},
		{"validation", ErrCodeValidation, 7002},
		{"invalid_id", ErrCodeInvalidID, 7003},
		{"internal_error", ErrCodeInternalError, 7004},
		{"rate_limit", ErrCodeRateLimitExceeded, 7005},
		{"request_too_large", ErrCodeRequestTooLarge, 7006},
		{"not_found", ErrCodeNotFound, 8001},
	}
	for _, tt := range tests {
		if int(tt.errCode) != tt.wantCode {
			t.Errorf("%s: got %d, want %d", tt.name, tt.errCode, tt.wantCode)
		}
	}
}

func TestMapErrorToResponse(t *testing.T) {
	storeErr := errors.New("pq: connection refused")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    ErrorCode
		wantMessage string
	}{
		{"validation", NewValidationError("title", "missing required field(s): title"), http.StatusBadRequest, ErrCodeValidation, "missing required field(s): title"},
		{"malformed", WrapMalformedRequestError(errors.New("unexpected EOF"), "invalid JSON"), http.StatusBadRequest, ErrCodeMalformedRequest, "invalid JSON: unexpected EOF"},
		{"invalid_id", NewInvalidIDError("xyz"), http.StatusBadRequest, ErrCodeInvalidID, `invalid post id: "xyz"`},
		{"not_found", NewNotFoundError("abc"), http.StatusNotFound, ErrCodeNotFound, "post abc not found"},
		{"rate_limit", NewRateLimitError("slow down"), http.StatusTooManyRequests, ErrCodeRateLimitExceeded, "slow down"},
		{"too_large", NewRequestTooLargeError("too big"), http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "too big"},
		// the wrapped store error must not be returned to the client
		{"internal", WrapInternalError(storeErr, "failed to list posts"), http.StatusInternalServerError, ErrCodeInternalError, "failed to list posts"},
		{"unmapped", storeErr, http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			res := MapErrorToResponse(tt.err, req)

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if len(res.Errors) != 1 {
				t.Fatalf("expected 1 detailed error, got %d", len(res.Errors))
			}
			if res.Errors[0].ErrorCode != tt.wantCode {
				t.Errorf("code = %d, want %d", res.Errors[0].ErrorCode, tt.wantCode)
			}
			if res.Errors[0].ErrorCodeMessage != tt.wantMessage {
				t.Errorf("message = %q, want %q", res.Errors[0].ErrorCodeMessage, tt.wantMessage)
			}
			if res.HTTPMethod != http.MethodPost || res.RequestURI != "/posts" {
				t.Errorf("unexpected request details: %s %s", res.HTTPMethod, res.RequestURI)
			}
		})
	}
}

func TestRespondWithErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
	rr := httptest.NewRecorder()

	RespondWithErrorResponse(rr, req, NewNotFoundError("abc"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.StatusCodeText != "Not Found" {
		t.Errorf("statusCodeText = %q", body.StatusCodeText)
	}
	if body.Errors[0].Property != "id" {
		t.Errorf("property = %q, want id", body.Errors[0].Property)
	}
}
