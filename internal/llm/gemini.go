package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiGenerator talks to the Gemini API via the Google GenAI SDK.
type GeminiGenerator struct {
	config *Config

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini-backed card generator. Gemini is
// always a cloud host and requires an API key.
func NewGeminiGenerator(config *Config) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for Gemini")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("LLM model is required")
	}
	return &GeminiGenerator{config: config}, nil
}

func (g *GeminiGenerator) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// GenerateCard asks Gemini for a question/answer pair.
func (g *GeminiGenerator) GenerateCard(ctx context.Context, text string) (Card, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return Card{}, err
	}

	resp, err := client.Models.GenerateContent(ctx, g.config.Model,
		genai.Text(BuildPrompt(g.config.PromptPrefix, text)), nil)
	if err != nil {
		return Card{}, fmt.Errorf("Gemini API error: %w", err)
	}

	return ParseCardResponse(resp.Text()), nil
}

// Name returns the generator name
func (g *GeminiGenerator) Name() string {
	return "gemini"
}
