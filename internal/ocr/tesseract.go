package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TesseractProvider implements Provider using the tesseract binary.
type TesseractProvider struct {
	binary   string
	language string
}

// NewTesseractProvider creates an OCR provider backed by a local tesseract
// installation.
func NewTesseractProvider(config *Config) *TesseractProvider {
	binary := config.TesseractPath
	if binary == "" {
		binary = "tesseract"
	}
	language := config.Language
	if language == "" {
		language = "eng"
	}
	return &TesseractProvider{binary: binary, language: language}
}

// Recognize runs tesseract on the image and returns the recognized text.
func (p *TesseractProvider) Recognize(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("image not found: %s", imagePath)
	}

	// "stdout" makes tesseract print the text instead of writing a file.
	args := []string{imagePath, "stdout", "-l", p.language}

	cmd := exec.CommandContext(ctx, p.binary, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("tesseract failed: %s", msg)
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}

// Name returns the provider name
func (p *TesseractProvider) Name() string {
	return "tesseract"
}

// IsAvailable checks if the tesseract binary is installed
func (p *TesseractProvider) IsAvailable() error {
	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("tesseract not found: install tesseract-ocr or set --tesseract-path")
	}
	return nil
}
