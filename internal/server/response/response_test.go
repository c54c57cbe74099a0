package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// TestFail tests the Fail helper function.
func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")

	require.NotNil(t, resp.Error)
	assert.Equal(t, "TEST_ERROR", resp.Error.Code)
	assert.Equal(t, "Test error message", resp.Error.Message)
	assert.Equal(t, "Additional details", resp.Error.Details)
}

// TestJSON tests that resources are written without an envelope.
func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, []map[string]string{{"id": "a"}, {"id": "b"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var decoded []map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "b", decoded[1]["id"])
}

// TestCreated tests the Created helper function.
func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]string{"id": "new-resource"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

// TestNoContent tests the NoContent helper function.
func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

// TestErrorHelpers tests all error response helpers.
func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name           string
		fn             func(w http.ResponseWriter)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "BadRequest",
			fn:             func(w http.ResponseWriter) { BadRequest(w, "Invalid request", "Missing field") },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "Unauthorized",
			fn:             func(w http.ResponseWriter) { Unauthorized(w, "Auth failed", "Invalid token") },
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "NotFound",
			fn:             func(w http.ResponseWriter) { NotFound(w, "Resource not found", "") },
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "MethodNotAllowed",
			fn:             func(w http.ResponseWriter) { MethodNotAllowed(w, http.MethodPatch) },
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   "METHOD_NOT_ALLOWED",
		},
		{
			name:           "RateLimited",
			fn:             func(w http.ResponseWriter) { RateLimited(w, "slow down") },
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "RATE_LIMITED",
		},
		{
			name:           "InternalError",
			fn:             func(w http.ResponseWriter) { InternalError(w, fmt.Errorf("secret")) },
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
		{
			name:           "ServiceUnavailable",
			fn:             func(w http.ResponseWriter) { ServiceUnavailable(w, "database down") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "SERVICE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.fn(w)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body Failure
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.expectedCode, body.Error.Code)
		})
	}
}

// TestErrorFromType tests error type mapping.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", errors.NewNotFoundError("saved book", "x"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("delete: %w", errors.NewNotFoundError("saved book", "x")), http.StatusNotFound},
		{"validation", errors.NewValidationError("id", "", "required"), http.StatusBadRequest},
		{"parse", errors.NewParseError("json", "body", "unexpected EOF", nil), http.StatusBadRequest},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// TestInternalErrorHidesDetails ensures the cause never reaches the client.
func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, fmt.Errorf("password=hunter2"))
	assert.NotContains(t, w.Body.String(), "hunter2")
}
