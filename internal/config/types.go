package config

// ProviderType identifies an LLM/embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level concertbot configuration, corresponding to .concertbot.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	// IndexDir is the directory holding the persisted vector index.
	IndexDir string `yaml:"index_dir" koanf:"index_dir"`
	// DocumentsDir is where uploaded documents are staged.
	DocumentsDir string `yaml:"documents_dir" koanf:"documents_dir"`
	// DataDir holds the history database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	TopK                  int     `yaml:"top_k" koanf:"top_k"`
	ScoreThreshold        float64 `yaml:"score_threshold" koanf:"score_threshold"`
	OnlineMaxResults      int     `yaml:"online_max_results" koanf:"online_max_results"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
