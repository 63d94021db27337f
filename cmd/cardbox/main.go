package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/tolvu/cardbox/internal/cli"
	"codeberg.org/tolvu/cardbox/internal/gui"
	"codeberg.org/tolvu/cardbox/internal/llm"
	"codeberg.org/tolvu/cardbox/internal/models"
	"codeberg.org/tolvu/cardbox/internal/ocr"
	"codeberg.org/tolvu/cardbox/internal/store"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	// Handle --list-models flag
	if flags.ListModels {
		baseURL := flags.LLMBaseURL
		if baseURL == "" && flags.LLMHost == string(llm.HostLocal) {
			baseURL = llm.DefaultLocalBaseURL
		}
		lister := models.NewLister(cli.GetOpenAIKey(), baseURL)
		return lister.ListAvailableModels()
	}

	dbPath := flags.DBPath
	if dbPath == "" {
		dbPath = store.DefaultPath()
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open card database: %w", err)
	}

	// The import/export flags run headless and exit.
	if flags.ExportAllPath != "" || flags.ExportPath != "" || flags.ImportPath != "" {
		defer st.Close()
		return runTransfer(st, flags)
	}

	host, err := llm.ParseHost(flags.LLMHost)
	if err != nil {
		st.Close()
		return err
	}

	ocrProvider, err := ocr.NewProvider(&ocr.Config{
		Provider:        flags.OCRProvider,
		TesseractPath:   flags.TesseractPath,
		Language:        flags.OCRLanguage,
		CredentialsFile: flags.VisionCredentials,
	})
	if err != nil {
		st.Close()
		return err
	}
	if err := ocrProvider.IsAvailable(); err != nil {
		fmt.Printf("Warning: OCR provider %s is not available (%v), bulk create will yield empty text\n", ocrProvider.Name(), err)
	}

	apiKey := cli.GetOpenAIKey()
	if flags.LLMProvider == "gemini" {
		apiKey = cli.GetGeminiKey()
	}
	generator, err := llm.NewGenerator(&llm.Config{
		Provider:     flags.LLMProvider,
		Host:         host,
		BaseURL:      flags.LLMBaseURL,
		Model:        flags.LLMModel,
		APIKey:       apiKey,
		PromptPrefix: flags.LLMPrompt,
	})
	if err != nil {
		st.Close()
		return err
	}

	// The GUI owns the store from here; it closes it on window close.
	app := gui.New(&gui.Config{
		Store:        st,
		OCR:          ocrProvider,
		Generator:    generator,
		Host:         host,
		AutoLLM:      flags.AutoLLM,
		PollInterval: flags.PollInterval,
	})
	app.Run()
	return nil
}

func runTransfer(st *store.Store, flags *cli.Flags) error {
	switch {
	case flags.ExportAllPath != "":
		if err := st.ExportAll(flags.ExportAllPath); err != nil {
			return err
		}
		fmt.Printf("Exported all collections to %s\n", flags.ExportAllPath)

	case flags.ExportPath != "":
		if flags.CollectionName == "" {
			return fmt.Errorf("--export requires --collection")
		}
		id, err := findCollection(st, flags.CollectionName)
		if err != nil {
			return err
		}
		if err := st.ExportCollection(id, flags.ExportPath); err != nil {
			return err
		}
		fmt.Printf("Exported %q to %s\n", flags.CollectionName, flags.ExportPath)

	case flags.ImportPath != "":
		result, err := st.ImportAll(flags.ImportPath)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d cards into %d collections\n", result.CardsAdded, result.Collections)
	}
	return nil
}

func findCollection(st *store.Store, name string) (int64, error) {
	collections, err := st.Collections()
	if err != nil {
		return 0, err
	}
	for _, c := range collections {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("collection not found: %s", name)
}
