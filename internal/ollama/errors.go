package ollama

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// The messages below are shown to users verbatim, so they keep the
// capitalization the editor integration has always displayed.
var (
	ErrCompletionFailed = errors.New("Failed to generate completion from Ollama")
	ErrStreamFailed     = errors.New("Failed to stream completion from Ollama")
	ErrListModelsFailed = errors.New("Failed to fetch models from Ollama")
	ErrChatFailed       = errors.New("Failed to chat with Ollama")
)

// statusError reports a non-2xx response from the server.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ollama request failed: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("ollama request failed with status %d", e.Status)
}

func readStatusError(body io.Reader, status int) error {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &resp); err == nil && resp.Error != "" {
		return &statusError{Status: status, Message: resp.Error}
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &statusError{Status: status, Message: msg}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
