package ollama

import (
	"context"
	"net/http"
	"time"
)

// Model describes a model installed on the server. Empty strings and a nil
// Size mean the server did not report the field.
type Model struct {
	Name       string `json:"name"`
	Size       *int64 `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

// Modified parses ModifiedAt.
func (m Model) Modified() (time.Time, bool) {
	if m.ModifiedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, m.ModifiedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

// ListModels returns the models installed on the server. A response without
// a models field yields an empty list.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	cfg := c.Config()
	logger := c.requestLogger("tags", cfg.BaseURL, cfg.Model)

	var resp tagsResponse
	if err := c.do(ctx, http.MethodGet, buildEndpoint(cfg.BaseURL, tagsPath), nil, &resp); err != nil {
		logger.Error("error fetching models", "error", err)
		return nil, ErrListModelsFailed
	}
	if resp.Models == nil {
		return []Model{}, nil
	}
	logger.Debug("models listed", "count", len(resp.Models))
	return resp.Models, nil
}
