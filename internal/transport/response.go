package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

// errorBody covers {"error":{"message":...}}, {"error":"..."} and {"message":...}.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// DecodeResponse decodes a JSON response into target, or returns an
// *errors.APIError for any non-2xx status.
func DecodeResponse(resp *http.Response, service, endpoint string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    ErrorMessage(resp.StatusCode, body),
			Endpoint:   endpoint,
		}
	}

	if target == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}

// ErrorMessage extracts the upstream's message from an error body, falling
// back to the HTTP status text.
func ErrorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if len(eb.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(eb.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
			var flat string
			if err := json.Unmarshal(eb.Error, &flat); err == nil && flat != "" {
				return flat
			}
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
