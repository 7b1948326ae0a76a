// Package analysisapi calls the external review-analysis service, an
// OpenAI-compatible chat-completions endpoint.
package analysisapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"review-processor/config"
	"review-processor/retry"
)

const systemPrompt = `You are a product review analyst. You respond with a single JSON object and nothing else: no markdown fences, no commentary.`

// Client wraps the chat-completions API behind the pipeline's narrow
// "prompt in, JSON text out" contract.
type Client struct {
	api     openai.Client
	cfg     config.AnalysisConfig
	retrier *retry.Retrier
	logger  *slog.Logger
}

func New(cfg config.AnalysisConfig, logger *slog.Logger) *Client {
	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)

	return &Client{
		api:     api,
		cfg:     cfg,
		retrier: retry.NewRetrier(retry.DefaultConfig(), isRetryable, logger),
		logger:  logger,
	}
}

// Analyze sends the assembled prompt and returns the model's raw response
// text with any markdown fences stripped. Parsing and schema validation
// are the caller's concern.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var content string

	err := c.retrier.Do(ctx, func() error {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.cfg.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			return err
		}

		if len(resp.Choices) == 0 {
			return errors.New("analysis service returned no choices")
		}

		content = resp.Choices[0].Message.Content

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("analysis service call failed: %w", err)
	}

	return StripFences(content), nil
}

// StripFences removes a surrounding markdown code fence from model output.
// Models occasionally wrap JSON in ```json blocks despite instructions.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")

	if i := strings.LastIndex(trimmed, "```"); i >= 0 {
		trimmed = trimmed[:i]
	}

	return strings.TrimSpace(trimmed)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection")
}
