package models

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	err := lister.ListAvailableModels()
	if err == nil {
		t.Error("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .cardbox.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestListAvailableModels_LocalEndpoint(t *testing.T) {
	// A local endpoint needs no API key; fake an Ollama-style server.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(openai.ModelsList{Models: []openai.Model{
			{ID: "llama3.2"},
			{ID: "nomic-embed-text"},
		}})
	}))
	defer server.Close()

	lister := NewLister("", server.URL)
	if err := lister.ListAvailableModels(); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}

func TestIsChatModel(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"gpt-4o-mini", true},
		{"llama3.2", true},
		{"mistral:7b", true},
		{"text-embedding-3-small", false},
		{"tts-1-hd", false},
		{"whisper-1", false},
		{"dall-e-3", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := isChatModel(tt.id); got != tt.want {
				t.Errorf("isChatModel(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey, "")

	err := lister.ListAvailableModels()
	if err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
