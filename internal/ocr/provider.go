package ocr

import (
	"context"
	"fmt"
)

// Provider defines the interface for optical character recognition backends
type Provider interface {
	// Recognize extracts text from the image file at path
	Recognize(ctx context.Context, imagePath string) (string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for OCR providers
type Config struct {
	Provider string // Provider name: "tesseract" or "vision"

	// Tesseract settings
	TesseractPath string // Binary path, defaults to "tesseract" on $PATH
	Language      string // Tesseract language code, e.g. "eng"

	// Google Cloud Vision settings
	CredentialsFile string // Service account file; empty means ADC
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:      "tesseract",
		TesseractPath: "tesseract",
		Language:      "eng",
	}
}

// NewProvider creates the appropriate OCR provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "tesseract":
		return NewTesseractProvider(config), nil

	case "vision":
		return NewVisionProvider(config), nil

	default:
		return nil, fmt.Errorf("unknown OCR provider: %s", config.Provider)
	}
}
