package cli

import (
	"errors"
	"fmt"

	"localai/internal/ollama"
)

// withHint adds a pointer at the server address to failures reported by the
// Ollama client. Other errors pass through unchanged.
func withHint(err error, baseURL string) error {
	switch {
	case errors.Is(err, ollama.ErrCompletionFailed),
		errors.Is(err, ollama.ErrStreamFailed),
		errors.Is(err, ollama.ErrListModelsFailed),
		errors.Is(err, ollama.ErrChatFailed):
		return fmt.Errorf("%w. Please check if Ollama is running at %s", err, baseURL)
	default:
		return err
	}
}
