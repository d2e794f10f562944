package similarity

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiEmbedder generates embeddings through Google's Gemini API.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
}

// NewGeminiEmbedder creates a Gemini embedding backend. model defaults to
// gemini-embedding-001 and dimensions to 768 when unset.
func NewGeminiEmbedder(apiKey, model string, dimensions int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-embedding-001"
	}
	if dimensions <= 0 {
		dimensions = 768
	}

	return &GeminiEmbedder{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed generates the embedding for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}},
	}

	dims := int32(e.dimensions)
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}
	return result.Embeddings[0].Values, nil
}

// Model names the embedding model.
func (e *GeminiEmbedder) Model() string { return e.model }

// Close releases resources.
func (e *GeminiEmbedder) Close() error { return nil }
