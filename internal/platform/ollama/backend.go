// Package ollama implements generation.Backend against a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/rewriter/internal/generation"
)

// Defaults for a stock Ollama install.
const (
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "phi3"
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Config holds the settings for the Ollama backend.
type Config struct {
	Endpoint string
	Model    string

	// HTTPClient overrides the client used for requests. Call deadlines come
	// from the context, so the default client has no timeout of its own.
	HTTPClient *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Backend calls POST /api/generate with streaming disabled.
type Backend struct {
	endpoint string
	model    string
	client   *http.Client
	logger   *slog.Logger
}

var _ generation.Backend = (*Backend)(nil)

// NewBackend creates an Ollama backend, filling in defaults for empty fields.
func NewBackend(cfg Config, logger *slog.Logger) *Backend {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Backend{
		endpoint: endpoint,
		model:    model,
		client:   client,
		logger:   logger.With("component", "ollama_backend"),
	}
}

// Name implements generation.Backend.
func (b *Backend) Name() string {
	return "ollama:" + b.model
}

// Complete implements generation.Backend.
func (b *Backend) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		b.logger.WarnContext(ctx, "ollama returned non-200 status",
			"status", resp.StatusCode,
			"model", b.model)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode ollama response: %w", generation.ErrInvalidResponse, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", generation.ErrInvalidResponse, out.Error)
	}
	if !out.Done {
		return "", fmt.Errorf("%w: incomplete response", generation.ErrInvalidResponse)
	}

	return out.Response, nil
}
