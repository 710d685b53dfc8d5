package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/rewriter/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds the settings for the Gemini backend.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Backend sends one prompt per call to Gemini's GenerateContent endpoint.
type Backend struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *slog.Logger
}

var _ generation.Backend = (*Backend)(nil)

// NewBackend creates a Gemini backend. It does not contact the API.
func NewBackend(ctx context.Context, cfg Config, logger *slog.Logger) (*Backend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %w", generation.ErrInvalidConfig, err)
	}

	genCfg := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		temp := cfg.Temperature
		genCfg.Temperature = &temp
	}

	logger.InfoContext(ctx, "gemini backend initialized", "model", model)

	return &Backend{
		client: client,
		model:  model,
		config: genCfg,
		logger: logger.With("component", "gemini_backend"),
	}, nil
}

// Name implements generation.Backend.
func (b *Backend) Name() string {
	return "gemini:" + b.model
}

// Complete implements generation.Backend.
func (b *Backend) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  string(genai.RoleUser),
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, b.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := textFromResponse(resp)
	if err != nil {
		b.logger.WarnContext(ctx, "unusable gemini response", "error", err)
		return "", err
	}
	return text, nil
}

// textFromResponse joins the text parts of the first candidate.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: candidate stopped for safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", generation.ErrEmptyResponse
	}
	return sb.String(), nil
}
