package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .concertbot.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to concertbot! Let's configure your assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: preset.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Index directory.
	indexPrompt := promptui.Prompt{
		Label:   "Directory for the vector index",
		Default: "index",
	}
	indexDir, err := indexPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("index dir: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.EmbeddingProvider = preset.EmbeddingProvider
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.IndexDir = indexDir

	if err := cfg.Save(".concertbot.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .concertbot.yml")
	if keyVar := APIKeyEnvVar(provider); keyVar != "" && os.Getenv(keyVar) == "" {
		fmt.Printf("Note: %s is not set; set it before ingesting or asking.\n", keyVar)
	}
	if os.Getenv(SerpAPIKeyEnvVar) == "" {
		fmt.Printf("Note: %s is not set; online fallback search will be disabled.\n", SerpAPIKeyEnvVar)
	}

	return cfg, nil
}
