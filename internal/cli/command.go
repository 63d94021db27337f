package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/tolvu/cardbox/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cardbox",
		Short: "Flashcard study application",
		Long: `cardbox manages flashcard collections and studies them.

Cards are organized into collections and sub-collections backed by a
local SQLite database. Besides manual editing, cards can be created in
bulk from a directory of photographed pages: each image is OCR'd and a
language model drafts a question/answer pair for human review.

Examples:
  cardbox                                   # Launch the GUI (default)
  cardbox --export-all cards.json           # Export every collection
  cardbox --export geo.json --collection Geography
  cardbox --import cards.json               # Merge an export file back in`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.cardbox.yaml)")

	// Local flags
	cmd.Flags().StringVar(&flags.DBPath, "db", "", "SQLite database file (default is ~/.local/state/cardbox/cards.db)")

	// OCR flags
	cmd.Flags().StringVar(&flags.OCRProvider, "ocr-provider", flags.OCRProvider, "OCR engine: tesseract or vision")
	cmd.Flags().StringVar(&flags.TesseractPath, "tesseract-path", "", "Path to the tesseract binary (default: found on PATH)")
	cmd.Flags().StringVar(&flags.OCRLanguage, "ocr-lang", flags.OCRLanguage, "Tesseract language code, e.g. eng or deu")
	cmd.Flags().StringVar(&flags.VisionCredentials, "vision-credentials", "", "Google Cloud credentials JSON for the vision provider")

	// LLM flags
	cmd.Flags().StringVar(&flags.LLMProvider, "llm-provider", flags.LLMProvider, "Card generator backend: openai or gemini")
	cmd.Flags().StringVar(&flags.LLMHost, "llm-host", flags.LLMHost, "Where the model runs: local (sequential) or cloud")
	cmd.Flags().StringVar(&flags.LLMBaseURL, "llm-base-url", "", "OpenAI-compatible API base URL (default depends on --llm-host)")
	cmd.Flags().StringVar(&flags.LLMModel, "llm-model", flags.LLMModel, "Model name for card generation")
	cmd.Flags().StringVar(&flags.LLMPrompt, "llm-prompt", "", "Override the prompt prefix sent before the OCR text")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models available at the configured LLM endpoint and exit")

	// Bulk-create flags
	cmd.Flags().BoolVar(&flags.AutoLLM, "auto-llm", flags.AutoLLM, "Generate question/answer drafts automatically during bulk create")
	cmd.Flags().DurationVar(&flags.PollInterval, "poll-interval", flags.PollInterval, "How often to re-scan the bulk directory for new images (0 disables)")

	// Import/export flags
	cmd.Flags().StringVar(&flags.ExportPath, "export", "", "Export one collection to a JSON file and exit (requires --collection)")
	cmd.Flags().StringVar(&flags.ExportAllPath, "export-all", "", "Export all collections to a JSON file and exit")
	cmd.Flags().StringVar(&flags.ImportPath, "import", "", "Import collections from a JSON file and exit")
	cmd.Flags().StringVar(&flags.CollectionName, "collection", "", "Collection name for --export")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("storage.path", cmd.Flags().Lookup("db"))
	viper.BindPFlag("ocr.provider", cmd.Flags().Lookup("ocr-provider"))
	viper.BindPFlag("ocr.tesseract_path", cmd.Flags().Lookup("tesseract-path"))
	viper.BindPFlag("ocr.language", cmd.Flags().Lookup("ocr-lang"))
	viper.BindPFlag("ocr.credentials_file", cmd.Flags().Lookup("vision-credentials"))
	viper.BindPFlag("llm.provider", cmd.Flags().Lookup("llm-provider"))
	viper.BindPFlag("llm.host", cmd.Flags().Lookup("llm-host"))
	viper.BindPFlag("llm.base_url", cmd.Flags().Lookup("llm-base-url"))
	viper.BindPFlag("llm.model", cmd.Flags().Lookup("llm-model"))
	viper.BindPFlag("llm.prompt_prefix", cmd.Flags().Lookup("llm-prompt"))
	viper.BindPFlag("bulk.auto_llm", cmd.Flags().Lookup("auto-llm"))
	viper.BindPFlag("bulk.poll_interval", cmd.Flags().Lookup("poll-interval"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".cardbox" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cardbox")
	}

	// Environment variables
	viper.SetEnvPrefix("CARDBOX")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("llm.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("llm.gemini_key")
}
