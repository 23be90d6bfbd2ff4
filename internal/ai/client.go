// Package ai wraps the OpenAI chat-completion API behind the four structured
// operations the bot needs: parsing food mentions out of free text,
// classifying message intent, estimating nutrition for foods the database
// does not know, and extracting an onboarding profile.
//
// Every operation requests a JSON object response and tolerates models that
// wrap their output in markdown code fences. Responses that fail to decode
// surface as errors; callers decide how to degrade.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ErrUnknownFood is returned by EstimateNutrition when the model reports it
// does not recognize the food at all.
var ErrUnknownFood = errors.New("ai: unknown food")

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Client calls the OpenAI chat-completion API.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// New constructs a Client for the given API key and model. An empty model
// selects DefaultModel.
func New(apiKey, model string) *Client {
	return newClient(openai.DefaultConfig(apiKey), model)
}

// NewWithBaseURL constructs a Client against a non-default API endpoint
// (gateways, proxies, tests).
func NewWithBaseURL(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return newClient(cfg, model)
}

func newClient(cfg openai.ClientConfig, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		// Low temperature keeps parsing and classification consistent.
		temperature: 0.3,
	}
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// chatJSON sends one system+user exchange and decodes the JSON object reply
// into out.
func (c *Client) chatJSON(ctx context.Context, system, user string, out any) error {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user + "\n\nIMPORTANT: Respond ONLY with valid JSON, no other text."},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("ai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return errors.New("ai: empty completion response")
	}

	content := stripFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		log.Debug().Str("content", truncate(content, 200)).Msg("undecodable model reply")
		return fmt.Errorf("ai: decode completion: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
