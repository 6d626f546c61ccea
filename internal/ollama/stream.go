package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// StreamHandler receives one token per decoded chunk. Returning an error
// aborts the stream.
type StreamHandler func(token string) error

type streamState int

const (
	streamIdle streamState = iota
	streamReceiving
	streamCompleted
	streamFailed
)

func (s streamState) String() string {
	switch s {
	case streamIdle:
		return "idle"
	case streamReceiving:
		return "receiving"
	case streamCompleted:
		return "completed"
	case streamFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StreamCompletion sends prompt to the configured model and delivers the
// response incrementally to onToken, in arrival order. It returns once the
// server closes the stream. Lines that are not JSON or carry no response
// text are skipped, including chunks that only report a server error. Any
// transport failure, as well as an error returned by onToken, is reported as
// ErrStreamFailed; tokens already delivered stay delivered.
func (c *Client) StreamCompletion(ctx context.Context, prompt string, onToken StreamHandler) error {
	cfg := c.Config()
	logger := c.requestLogger("stream", cfg.BaseURL, cfg.Model)

	payload := GenerateRequest{
		Model:  cfg.Model,
		Prompt: prompt,
		Stream: true,
	}
	requestBody, err := json.Marshal(payload)
	if err != nil {
		logger.Error("error in stream completion", "error", err)
		return ErrStreamFailed
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, buildEndpoint(cfg.BaseURL, generatePath), bytes.NewReader(requestBody))
	if err != nil {
		logger.Error("error in stream completion", "error", err)
		return ErrStreamFailed
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("error in stream completion", "error", fmt.Errorf("ollama request: %w", err))
		return ErrStreamFailed
	}
	defer httpResp.Body.Close()

	if !isSuccess(httpResp.StatusCode) {
		logger.Error("error in stream completion", "error", readStatusError(httpResp.Body, httpResp.StatusCode))
		return ErrStreamFailed
	}

	dec := &streamDecoder{handle: onToken, logger: logger}
	if err := dec.run(httpResp.Body); err != nil {
		logger.Error("error in stream completion", "error", err, "tokens", dec.tokens, "state", dec.state)
		if dec.handlerErr != nil {
			return fmt.Errorf("%w: %w", ErrStreamFailed, dec.handlerErr)
		}
		return ErrStreamFailed
	}
	logger.Debug("stream completed", "tokens", dec.tokens)
	return nil
}

// streamDecoder walks a newline-delimited JSON body. Malformed lines are
// dropped without leaving the receiving state; only read errors and handler
// errors fail the stream.
type streamDecoder struct {
	handle     StreamHandler
	logger     *slog.Logger
	state      streamState
	tokens     int
	handlerErr error
}

func (d *streamDecoder) run(body io.Reader) error {
	d.state = streamReceiving

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := d.line(scanner.Bytes()); err != nil {
			d.state = streamFailed
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		d.state = streamFailed
		return fmt.Errorf("read stream: %w", err)
	}
	d.state = streamCompleted
	return nil
}

func (d *streamDecoder) line(raw []byte) error {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return nil
	}
	var chunk generateResponse
	if err := json.Unmarshal(data, &chunk); err != nil {
		d.logger.Debug("skipping malformed stream chunk", "error", err)
		return nil
	}
	if chunk.Error != "" {
		d.logger.Warn("skipping stream chunk with server error", "server_error", chunk.Error)
		return nil
	}
	if chunk.Response == nil || *chunk.Response == "" {
		return nil
	}
	d.tokens++
	if d.handle == nil {
		return nil
	}
	if err := d.handle(*chunk.Response); err != nil {
		d.handlerErr = err
		return fmt.Errorf("handle token: %w", err)
	}
	return nil
}
