package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
	Error    string  `json:"error,omitempty"`
}

// GenerateCompletion sends prompt to the configured model and returns the
// complete response text. Every failure is reported as ErrCompletionFailed;
// the cause is logged.
func (c *Client) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	cfg := c.Config()
	logger := c.requestLogger("generate", cfg.BaseURL, cfg.Model)
	text, err := c.generate(ctx, cfg.BaseURL, cfg.Model, prompt)
	if err != nil {
		logger.Error("error calling ollama api", "error", err)
		return "", ErrCompletionFailed
	}
	logger.Debug("completion received", "chars", len(text))
	return text, nil
}

// Chat behaves like GenerateCompletion but targets model instead of the
// configured one. An empty model falls back to the configured model.
func (c *Client) Chat(ctx context.Context, prompt, model string) (string, error) {
	cfg := c.Config()
	if strings.TrimSpace(model) == "" {
		model = cfg.Model
	}
	logger := c.requestLogger("chat", cfg.BaseURL, model)
	text, err := c.generate(ctx, cfg.BaseURL, model, prompt)
	if err != nil {
		logger.Error("error in chat", "error", err)
		return "", ErrChatFailed
	}
	logger.Debug("chat response received", "chars", len(text))
	return text, nil
}

func (c *Client) generate(ctx context.Context, baseURL, model, prompt string) (string, error) {
	payload := GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}
	var resp generateResponse
	if err := c.do(ctx, http.MethodPost, buildEndpoint(baseURL, generatePath), payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", resp.Error)
	}
	if resp.Response == nil {
		return "", errors.New("ollama response has no response field")
	}
	return *resp.Response, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		requestBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(requestBody)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ollama request: %w", err)
	}
	defer httpResp.Body.Close()

	if !isSuccess(httpResp.StatusCode) {
		return readStatusError(httpResp.Body, httpResp.StatusCode)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) requestLogger(op, baseURL, model string) *slog.Logger {
	return c.logger.With(
		"op", op,
		"request_id", uuid.New().String()[:8],
		"url", baseURL,
		"model", model,
	)
}
