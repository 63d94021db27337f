package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	DBPath  string

	// OCR flags
	OCRProvider       string
	TesseractPath     string
	OCRLanguage       string
	VisionCredentials string

	// LLM flags
	LLMProvider string
	LLMHost     string
	LLMBaseURL  string
	LLMModel    string
	LLMPrompt   string

	// Bulk-create flags
	AutoLLM      bool
	PollInterval time.Duration

	ListModels bool

	// Import/export flags
	ExportPath     string
	ExportAllPath  string
	ImportPath     string
	CollectionName string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OCRProvider:  "tesseract",
		OCRLanguage:  "eng",
		LLMProvider:  "openai",
		LLMHost:      "local",
		LLMModel:     "llama3.2",
		AutoLLM:      true,
		PollInterval: 3 * time.Second,
	}
}
