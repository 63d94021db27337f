package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// HostKind distinguishes a local OpenAI-compatible endpoint (no auth, e.g.
// Ollama) from a cloud API that requires a bearer key.
type HostKind string

const (
	HostLocal HostKind = "local"
	HostCloud HostKind = "cloud"
)

// ParseHost validates a host kind string.
func ParseHost(s string) (HostKind, error) {
	switch HostKind(s) {
	case HostLocal, HostCloud:
		return HostKind(s), nil
	default:
		return "", fmt.Errorf("unknown LLM host kind: %s (want local or cloud)", s)
	}
}

// MaxConcurrentRuns returns how many generation calls the bulk pipeline may
// have in flight for a host kind. Local models process one request at a
// time; cloud hosts allow the current item plus one look-ahead.
func MaxConcurrentRuns(host HostKind) int {
	if host == HostCloud {
		return 2
	}
	return 1
}

// Card is a generated question/answer pair. Raw keeps the unparsed model
// response for display.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Raw      string `json:"-"`
}

// Generator turns recognized text into a flashcard.
type Generator interface {
	// GenerateCard asks the model for a question/answer pair for text
	GenerateCard(ctx context.Context, text string) (Card, error)

	// Name returns the generator name
	Name() string
}

// Config holds configuration for card generators
type Config struct {
	Provider     string   // "openai" or "gemini"
	Host         HostKind // local or cloud
	BaseURL      string   // OpenAI-compatible endpoint for local hosts
	Model        string   // Model identifier
	APIKey       string   // Required for cloud hosts
	PromptPrefix string   // Prepended to the OCR text
}

// DefaultPromptPrefix is used when no custom prompt is configured.
const DefaultPromptPrefix = `Create a single flashcard from the following notes. ` +
	`Respond with only a JSON object of the form {"question": "...", "answer": "..."} and nothing else.`

// DefaultLocalBaseURL points at a local Ollama install's OpenAI-compatible API.
const DefaultLocalBaseURL = "http://localhost:11434/v1"

// NewGenerator creates the configured card generator. Cloud generators are
// wrapped in a circuit breaker.
func NewGenerator(config *Config) (Generator, error) {
	if config == nil {
		return nil, fmt.Errorf("LLM configuration is required")
	}

	var gen Generator
	switch config.Provider {
	case "", "openai":
		g, err := NewOpenAIGenerator(config)
		if err != nil {
			return nil, err
		}
		gen = g

	case "gemini":
		g, err := NewGeminiGenerator(config)
		if err != nil {
			return nil, err
		}
		gen = g

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}

	if config.Host == HostCloud {
		gen = NewBreakerGenerator(gen)
	}
	return gen, nil
}

// OpenAIGenerator talks to an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	config *Config
}

// NewOpenAIGenerator creates a generator for an OpenAI-compatible endpoint.
// Local hosts need a base URL and no key; cloud hosts need a key.
func NewOpenAIGenerator(config *Config) (*OpenAIGenerator, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("LLM model is required")
	}

	var clientConfig openai.ClientConfig
	switch config.Host {
	case HostLocal:
		// Local endpoints ignore the key but the client requires one.
		clientConfig = openai.DefaultConfig("ollama")
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = DefaultLocalBaseURL
		}
		clientConfig.BaseURL = baseURL

	case HostCloud:
		if config.APIKey == "" {
			return nil, fmt.Errorf("API key is required for the cloud host")
		}
		clientConfig = openai.DefaultConfig(config.APIKey)
		if config.BaseURL != "" {
			clientConfig.BaseURL = config.BaseURL
		}

	default:
		return nil, fmt.Errorf("unknown LLM host kind: %s", config.Host)
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// GenerateCard asks the chat model for a question/answer pair.
func (g *OpenAIGenerator) GenerateCard(ctx context.Context, text string) (Card, error) {
	req := openai.ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(g.config.PromptPrefix, text),
			},
		},
		Temperature: 0.3,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Card{}, g.describeError(err)
	}

	if len(resp.Choices) == 0 {
		return Card{}, fmt.Errorf("no response from model")
	}

	return ParseCardResponse(resp.Choices[0].Message.Content), nil
}

// describeError adds diagnostic detail for auth failures so a misconfigured
// key is obvious when debugging locally.
func (g *OpenAIGenerator) describeError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "401") || strings.Contains(strings.ToLower(msg), "unauthorized") {
		return fmt.Errorf("unauthorized (key %q): %w", g.config.APIKey, err)
	}
	return fmt.Errorf("LLM API error: %w", err)
}

// Name returns the generator name
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// BuildPrompt combines the configured prompt prefix with the OCR text.
func BuildPrompt(prefix, text string) string {
	if prefix == "" {
		prefix = DefaultPromptPrefix
	}
	return prefix + "\n\n" + text
}
