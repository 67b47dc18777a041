package remote

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrNotConfigured is returned before any network call when the site ID
// or API key is missing. The batch orchestrator stops early on it since
// every subsequent asset would fail the same way.
var ErrNotConfigured = errors.New("remote store credentials not configured")

// StatusError is a non-2xx response from the remote store, with the
// message extracted from the JSON body when one was decodable.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote store returned %d: %s", e.Code, e.Message)
}

func messageFromBody(body []byte) string {
	var decoded struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		return decoded.Message
	}
	return string(body)
}
