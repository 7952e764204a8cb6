package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a rigorous startup analyst. " +
	"Answer every request with strictly valid JSON and nothing else."

// Config holds the settings for the OpenAI-compatible oracle backend.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client is the production Oracle backed by an OpenAI-compatible chat
// completion API in JSON mode.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Client from config. BaseURL is optional and allows
// pointing at any OpenAI-compatible endpoint.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle: api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: model,
	}, nil
}

// Infer sends the prompt and returns the raw JSON reply. The reply is
// stripped of Markdown code fences and must parse as JSON; anything else
// is an error.
func (c *Client) Infer(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("oracle: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("oracle: empty completion")
	}

	raw := stripFences(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("oracle: reply is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// stripFences removes a surrounding ```json ... ``` block if present.
// Some backends wrap JSON-mode output in fences despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
