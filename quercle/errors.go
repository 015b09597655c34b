package quercle

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quercle/quercle-aigo/internal/utils"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no API key is configured.
	ErrMissingAPIKey = errors.New("quercle: API key is required (set QUERCLE_API_KEY or use WithAPIKey)")

	// ErrInvalidRequest is returned before any network I/O when a request
	// fails local argument checks.
	ErrInvalidRequest = errors.New("quercle: invalid request")

	// ErrUnauthorized matches API errors with status 401 or 403.
	ErrUnauthorized = errors.New("quercle: unauthorized")

	// ErrInsufficientCredits matches API errors with status 402.
	ErrInsufficientCredits = errors.New("quercle: insufficient credits")

	// ErrRateLimited matches API errors with status 429.
	ErrRateLimited = errors.New("quercle: rate limited")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("quercle: API error (status %d, request %s): %s", e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("quercle: API error (status %d): %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match an APIError against the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrInsufficientCredits:
		return e.StatusCode == http.StatusPaymentRequired
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

type errorBody struct {
	Error  json.RawMessage `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// newAPIError builds an APIError from a failed response. The message is
// taken from an {"error": ...} or {"detail": ...} body when present.
func newAPIError(statusCode int, body []byte, requestID string) *APIError {
	message := strings.TrimSpace(string(body))

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if m := rawMessageText(parsed.Error); m != "" {
			message = m
		} else if m := rawMessageText(parsed.Detail); m != "" {
			message = m
		}
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    utils.TruncateString(message, utils.DefaultMaxStringLength),
		RequestID:  requestID,
	}
}

// rawMessageText returns a JSON string value unquoted and any other JSON
// value as-is.
func rawMessageText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
