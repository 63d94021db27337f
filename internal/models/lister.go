package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister queries the configured OpenAI-compatible endpoint for its models
type Lister struct {
	apiKey  string
	baseURL string
	client  *openai.Client
}

// NewLister creates a new model lister. An empty baseURL targets
// api.openai.com; pointing it at an Ollama server lists the locally
// pulled models instead.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  openai.NewClientWithConfig(config),
	}
}

// ListAvailableModels prints the models the endpoint offers, chat models
// first since those are what card generation uses
func (l *Lister) ListAvailableModels() error {
	if l.apiKey == "" && l.baseURL == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .cardbox.yaml")
	}

	ctx := context.Background()
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	chatModels := []string{}
	otherModels := []string{}
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		} else {
			otherModels = append(otherModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	sort.Strings(otherModels)

	endpoint := l.baseURL
	if endpoint == "" {
		endpoint = "api.openai.com"
	}
	fmt.Printf("Models available at %s:\n", endpoint)

	fmt.Println("\nChat models (usable with --llm-model):")
	if len(chatModels) == 0 {
		fmt.Println("  No chat models found")
	} else {
		for _, model := range chatModels {
			fmt.Printf("  %s\n", model)
		}
	}

	if len(otherModels) > 0 {
		fmt.Println("\nOther models:")
		for _, model := range otherModels {
			fmt.Printf("  %s\n", model)
		}
	}

	return nil
}

// isChatModel filters out embedding, audio and image models on hosted
// endpoints. Local servers mostly serve chat models under arbitrary
// names, so unknown names count as chat.
func isChatModel(id string) bool {
	lowered := strings.ToLower(id)
	for _, fragment := range []string{"embedding", "embed", "tts", "audio", "whisper", "dall-e", "image", "moderation"} {
		if strings.Contains(lowered, fragment) {
			return false
		}
	}
	return true
}
