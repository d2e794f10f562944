package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

const chatSystemPrompt = `You compare questionnaire text for semantic similarity. ` +
	`Score how close two texts are in meaning on a scale from 0 to 1, where 1 ` +
	`means they ask or state the same thing and 0 means they are unrelated. ` +
	`Respond with JSON only.`

const chatUserTemplate = `Score the semantic similarity of the two texts below.

Return ONLY valid JSON with this exact structure: {"score": 0.85}

Text A:
%s

Text B:
%s`

// ChatProvider scores a text pair by asking a chat completion model for a
// numeric judgement. Requests use JSON mode and temperature 0 so repeated
// runs stay as stable as the model allows.
type ChatProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewChatProvider creates a chat-backed scorer. BaseURL may point at any
// OpenAI-compatible endpoint; model defaults to gpt-4o-mini.
func NewChatProvider(apiKey, baseURL, model string, timeout time.Duration) (*ChatProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("chat provider API key is required")
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChatProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}, nil
}

// Name identifies the provider and its model.
func (p *ChatProvider) Name() string { return "chat/" + p.model }

// Score asks the model to judge the pair. Identical normalized text scores
// 1.0 without a request; empty text scores 0.0 the same way.
func (p *ChatProvider) Score(ctx context.Context, a, b string) (float64, error) {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0, nil
	}
	if na == nb {
		return 1, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		MaxTokens:   64,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(chatUserTemplate, na, nb)},
		},
	})
	if err != nil {
		return 0, classify(err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("%w: no completion choices returned", ErrProviderUnavailable)
	}

	var judgement struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &judgement); err != nil {
		return 0, fmt.Errorf("%w: malformed score payload: %v", ErrProviderUnavailable, err)
	}
	return clamp01(judgement.Score), nil
}

// Close releases resources.
func (p *ChatProvider) Close() error { return nil }
