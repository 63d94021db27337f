package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "cardbox" {
		t.Errorf("Expected Use to be 'cardbox', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Flashcard study application") {
		t.Errorf("Expected Short description to contain 'Flashcard study application'")
	}

	// Test that flags are set up
	flagTests := []struct {
		name     string
		expected bool
	}{
		{"config", true},
		{"db", true},
		{"ocr-provider", true},
		{"tesseract-path", true},
		{"ocr-lang", true},
		{"vision-credentials", true},
		{"llm-provider", true},
		{"llm-host", true},
		{"llm-base-url", true},
		{"llm-model", true},
		{"llm-prompt", true},
		{"auto-llm", true},
		{"poll-interval", true},
		{"export", true},
		{"export-all", true},
		{"import", true},
		{"collection", true},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.name == "config" {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil && tt.expected {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	// Test OCR provider default
	providerFlag := cmd.Flags().Lookup("ocr-provider")
	if providerFlag == nil {
		t.Fatal("ocr-provider flag not found")
	}
	if providerFlag.DefValue != "tesseract" {
		t.Errorf("Expected default OCR provider to be tesseract, got %s", providerFlag.DefValue)
	}

	// Test poll interval default
	pollFlag := cmd.Flags().Lookup("poll-interval")
	if pollFlag == nil {
		t.Fatal("poll-interval flag not found")
	}
	if pollFlag.DefValue != "3s" {
		t.Errorf("Expected default poll interval to be 3s, got %s", pollFlag.DefValue)
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		cfgFile   string
		setupFunc func(t *testing.T) string
	}{
		{
			name:    "with config file",
			cfgFile: "test-config.yaml",
			setupFunc: func(t *testing.T) string {
				tmpDir := t.TempDir()
				cfgPath := filepath.Join(tmpDir, "test-config.yaml")
				content := `llm:
  provider: openai
  openai_key: test-key
storage:
  path: /test/cards.db`
				err := os.WriteFile(cfgPath, []byte(content), 0644)
				if err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
		},
		{
			name:    "without config file",
			cfgFile: "",
			setupFunc: func(t *testing.T) string {
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			cfgPath := tt.setupFunc(t)
			if tt.cfgFile != "" && cfgPath != "" {
				tt.cfgFile = cfgPath
			}

			InitConfig(tt.cfgFile)

			// Test environment variable prefix
			os.Setenv("CARDBOX_TEST_VAR", "test-value")
			defer os.Unsetenv("CARDBOX_TEST_VAR")

			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{
			name:      "from environment",
			envKey:    "env-test-key",
			configKey: "config-test-key",
			expected:  "env-test-key",
		},
		{
			name:      "from config when no env",
			envKey:    "",
			configKey: "config-test-key",
			expected:  "config-test-key",
		},
		{
			name:      "empty when neither set",
			envKey:    "",
			configKey: "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper
			viper.Reset()

			// Set up environment
			if tt.envKey != "" {
				os.Setenv("OPENAI_API_KEY", tt.envKey)
				defer os.Unsetenv("OPENAI_API_KEY")
			} else {
				os.Unsetenv("OPENAI_API_KEY")
			}

			// Set up config
			if tt.configKey != "" {
				viper.Set("llm.openai_key", tt.configKey)
			}

			got := GetOpenAIKey()
			if got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetGeminiKey(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	os.Setenv("GEMINI_API_KEY", "env-gemini-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	if got := GetGeminiKey(); got != "env-gemini-key" {
		t.Errorf("GetGeminiKey() = %v, want env-gemini-key", got)
	}

	os.Unsetenv("GEMINI_API_KEY")
	viper.Set("llm.gemini_key", "config-gemini-key")
	if got := GetGeminiKey(); got != "config-gemini-key" {
		t.Errorf("GetGeminiKey() = %v, want config-gemini-key", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	// Reset viper
	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("db", "/test/cards.db")
	cmd.Flags().Set("ocr-provider", "vision")
	cmd.Flags().Set("llm-model", "gpt-4o-mini")

	bindFlagsToViper(cmd)

	// Test that values are bound
	if viper.GetString("storage.path") != "/test/cards.db" {
		t.Errorf("Expected storage.path to be /test/cards.db, got %s", viper.GetString("storage.path"))
	}

	if viper.GetString("ocr.provider") != "vision" {
		t.Errorf("Expected ocr.provider to be vision, got %s", viper.GetString("ocr.provider"))
	}

	if viper.GetString("llm.model") != "gpt-4o-mini" {
		t.Errorf("Expected llm.model to be gpt-4o-mini, got %s", viper.GetString("llm.model"))
	}
}
