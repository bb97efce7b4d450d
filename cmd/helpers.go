package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/concertbot/concertbot/internal/answer"
	"github.com/concertbot/concertbot/internal/config"
	"github.com/concertbot/concertbot/internal/db"
	"github.com/concertbot/concertbot/internal/embeddings"
	"github.com/concertbot/concertbot/internal/history"
	"github.com/concertbot/concertbot/internal/ingest"
	"github.com/concertbot/concertbot/internal/llm"
	"github.com/concertbot/concertbot/internal/summary"
	"github.com/concertbot/concertbot/internal/topic"
	"github.com/concertbot/concertbot/internal/vectorstore"
	"github.com/concertbot/concertbot/internal/websearch"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `concertbot init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ensureDirectories creates the working directories the assistant expects.
func ensureDirectories(cfg *config.Config) error {
	for _, dir := range []string{cfg.DocumentsDir, cfg.IndexDir, cfg.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

func requestTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RequestTimeoutSeconds) * time.Second
}

// createLLMProviderFromConfig creates the LLM provider, bounded by the
// configured request timeout.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.WithTimeout(provider, requestTimeout(cfg)), nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(provider).EmbeddingModel
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 0, os.Getenv("OLLAMA_HOST")), nil
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// openHistory opens the history database in the configured data directory.
func openHistory(cfg *config.Config) (*history.Store, func(), error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "concertbot.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

// assistant bundles the constructed core components.
type assistant struct {
	pipeline   *ingest.Pipeline
	engine     *answer.Engine
	summarizer *summary.Summarizer
	history    *history.Store
	close      func()
}

// buildAssistant wires every capability object once and injects it into the
// ingestion pipeline and the answer engine.
func buildAssistant(cfg *config.Config) (*assistant, error) {
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store := vectorstore.New(embedder, cfg.IndexDir)
	classifier := topic.NewClassifier(provider, cfg.Model)
	summarizer := summary.NewSummarizer(provider, cfg.Model)
	online := websearch.New(os.Getenv(config.SerpAPIKeyEnvVar))

	hist, closeHist, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}

	return &assistant{
		pipeline: ingest.NewPipeline(classifier, summarizer, store),
		engine: answer.NewEngine(classifier, provider, cfg.Model, store, online, answer.Options{
			TopK:             cfg.TopK,
			ScoreThreshold:   float32(cfg.ScoreThreshold),
			OnlineMaxResults: cfg.OnlineMaxResults,
		}),
		summarizer: summarizer,
		history:    hist,
		close:      closeHist,
	}, nil
}
