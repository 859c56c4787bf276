package imagegen

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// ContentGenerator is the slice of the genai Models service the pipeline uses
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient is a lazily constructed, process-wide Gemini client.
// The underlying genai client is built once on first use and only read afterwards.
type GeminiClient struct {
	apiKey string

	once   sync.Once
	models *genai.Models
	err    error
}

// NewGeminiClient returns ErrMissingAPIKey immediately when apiKey is empty
func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &GeminiClient{apiKey: apiKey}, nil
}

func (g *GeminiClient) init(ctx context.Context) (*genai.Models, error) {
	g.once.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			g.err = fmt.Errorf("failed to create gemini client: %w", err)
			return
		}
		g.models = client.Models
	})
	return g.models, g.err
}

// GenerateContent forwards to the shared genai client
func (g *GeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	models, err := g.init(ctx)
	if err != nil {
		return nil, err
	}
	return models.GenerateContent(ctx, model, contents, config)
}
