package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "volume",
			ID:       "zyTCAlFPjgYC",
		}
		assert.Equal(t, "volume with ID zyTCAlFPjgYC not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("book", "abc")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "id",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field id: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "no identifier"}
		assert.Equal(t, "validation failed: no identifier", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("google-books", 404, "volume not found")
		assert.Contains(t, err.Error(), "google-books")
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "volume not found")
		assert.Equal(t, 404, pkgerrors.StatusCode(err))
	})

	t.Run("status classes", func(t *testing.T) {
		assert.True(t, pkgerrors.IsRateLimited(pkgerrors.NewAPIError("x", 429, "slow down")))
		assert.True(t, pkgerrors.IsUpstreamUnavailable(pkgerrors.NewAPIError("x", 503, "down")))
		assert.False(t, pkgerrors.IsUpstreamUnavailable(pkgerrors.NewAPIError("x", 400, "bad")))
		assert.False(t, pkgerrors.IsRateLimited(pkgerrors.NewAPIError("x", 503, "down")))
	})

	t.Run("not a timeout or cancellation", func(t *testing.T) {
		err := pkgerrors.NewAPIError("x", 500, "boom")
		assert.False(t, pkgerrors.IsTimeout(err))
		assert.False(t, pkgerrors.IsCanceled(err))
	})

	t.Run("status code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("search: %w", pkgerrors.NewAPIError("x", 418, "teapot"))
		assert.Equal(t, 418, pkgerrors.StatusCode(err))
		assert.Equal(t, 0, pkgerrors.StatusCode(errors.New("plain")))
	})
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("google-books", "api_key", "API key not valid", nil)
	assert.Contains(t, err.Error(), "google-books")
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, errors.Is(err, pkgerrors.ErrAPIKeyInvalid))
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("search", "8s", "no response")
	assert.Equal(t, "operation search timed out after 8s: no response", err.Error())
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.False(t, pkgerrors.IsCanceled(err))
}

func TestCanceledError(t *testing.T) {
	t.Run("superseded", func(t *testing.T) {
		err := pkgerrors.NewSupersededError("search")
		assert.True(t, pkgerrors.IsCanceled(err))
		assert.True(t, pkgerrors.IsSuperseded(err))
		assert.False(t, pkgerrors.IsTimeout(err))
		assert.Contains(t, err.Error(), "superseded")
	})

	t.Run("plain cancel", func(t *testing.T) {
		err := &pkgerrors.CanceledError{Operation: "search"}
		assert.True(t, pkgerrors.IsCanceled(err))
		assert.False(t, pkgerrors.IsSuperseded(err))
		assert.Equal(t, "operation search canceled", err.Error())
	})
}

func TestRemoteUnavailableError(t *testing.T) {
	base := pkgerrors.NewAPIError("remote-store", 502, "bad gateway")
	err := pkgerrors.WrapRemote("list", "http://localhost:3001/api/books", base)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRemoteUnavailable(err))
	assert.Equal(t, 502, pkgerrors.StatusCode(err))

	var apiErr *pkgerrors.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Nil(t, pkgerrors.WrapRemote("list", "x", nil))
}

func TestIOAndParseErrors(t *testing.T) {
	t.Run("io", func(t *testing.T) {
		base := errors.New("permission denied")
		err := pkgerrors.WrapIO("write", "/tmp/saved.json", base)
		assert.Contains(t, err.Error(), "/tmp/saved.json")
		assert.ErrorIs(t, err, base)
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("parse", func(t *testing.T) {
		err := pkgerrors.WrapParse("json", "saved.json", errors.New("unexpected EOF"))
		assert.Contains(t, err.Error(), "json")
		assert.Contains(t, err.Error(), "saved.json")
		assert.Nil(t, pkgerrors.WrapParse("json", "saved.json", nil))
	})

	t.Run("resource", func(t *testing.T) {
		err := pkgerrors.WrapResource("delete", "book", "abc", errors.New("locked"))
		assert.Contains(t, err.Error(), "delete")
		assert.Contains(t, err.Error(), "abc")
		assert.Nil(t, pkgerrors.WrapResource("delete", "book", "abc", nil))
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("local_store", "unknown backend", nil)
	assert.Equal(t, "configuration error in local_store: unknown backend", err.Error())
}

func TestErrorChaining(t *testing.T) {
	baseErr := errors.New("connection refused")
	ioErr := pkgerrors.WrapIO("connect", "books.example.com", baseErr)
	remote := pkgerrors.WrapRemote("save", "books.example.com", ioErr)

	var target *pkgerrors.IOError
	require.True(t, errors.As(remote, &target))
	assert.Equal(t, "connect", target.Operation)
	assert.ErrorIs(t, remote, baseErr)
}
