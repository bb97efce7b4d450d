package config

// ProviderPreset describes the default models for a provider.
type ProviderPreset struct {
	Model             string
	EmbeddingProvider ProviderType
	EmbeddingModel    string
}

// providerPresets maps each provider to its default model choices.
var providerPresets = map[ProviderType]ProviderPreset{
	ProviderOpenAI: {
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
	},
	ProviderOllama: {
		Model:             "llama3",
		EmbeddingProvider: ProviderOllama,
		EmbeddingModel:    "nomic-embed-text",
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:              ProviderOpenAI,
		Model:                 "gpt-4o-mini",
		EmbeddingProvider:     ProviderOpenAI,
		EmbeddingModel:        "text-embedding-3-small",
		IndexDir:              "index",
		DocumentsDir:          "documents",
		DataDir:               "data",
		TopK:                  4,
		ScoreThreshold:        0,
		OnlineMaxResults:      5,
		RequestTimeoutSeconds: 60,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// GetPreset returns the default models for the given provider, falling back
// to the OpenAI preset for unknown providers.
func GetPreset(provider ProviderType) ProviderPreset {
	if preset, ok := providerPresets[provider]; ok {
		return preset
	}
	return providerPresets[ProviderOpenAI]
}
