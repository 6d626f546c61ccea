// Package ollama talks to a local Ollama model server over its HTTP API.
package ollama

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "codellama"
)

type Config struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// ServiceConfig is the connection configuration held by a Client.
type ServiceConfig struct {
	BaseURL string
	Model   string
}

// ConfigUpdate is a partial ServiceConfig. Nil fields are left untouched.
type ConfigUpdate struct {
	BaseURL *string
	Model   *string
}

type Client struct {
	mu         sync.RWMutex
	cfg        ServiceConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg: ServiceConfig{
			BaseURL: baseURL,
			Model:   model,
		},
		httpClient: client,
		logger:     logger,
	}
}

func (c *Client) Config() ServiceConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// UpdateConfig merges the supplied fields into the held configuration.
// Values are not validated; calls already in flight keep the configuration
// they started with.
func (c *Client) UpdateConfig(update ConfigUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if update.BaseURL != nil {
		c.cfg.BaseURL = *update.BaseURL
	}
	if update.Model != nil {
		c.cfg.Model = *update.Model
	}
}

func buildEndpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
