// Package config resolves runtime settings from flags, the environment and
// defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is required")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds every setting the commands need.
type Config struct {
	APIKey  string
	BaseURL string

	Model              string
	EmbeddingModel     string
	EmbeddingDimension int

	LogLevel string
	Debug    bool

	MilvusAddress    string
	MilvusCollection string

	ListenAddr string
}

// binding ties a config key to its environment variables and flag name.
type binding struct {
	key  string
	envs []string
	flag string
}

var bindings = []binding{
	{"api_key", []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, "api-key"},
	{"base_url", []string{"GEMINI_BASE_URL"}, "base-url"},
	{"model", []string{"GEMINI_MODEL"}, "model"},
	{"embedding_model", []string{"GEMINI_EMBEDDING_MODEL"}, "embedding-model"},
	{"embedding_dimension", []string{"GEMINI_EMBEDDING_DIMENSION"}, "dimension"},
	{"log_level", []string{"LOG_LEVEL"}, "log-level"},
	{"debug", []string{"GAIA_DEBUG"}, "debug"},
	{"milvus_address", []string{"MILVUS_ADDRESS"}, "milvus-address"},
	{"milvus_collection", []string{"MILVUS_COLLECTION"}, "collection"},
	{"listen_addr", []string{"GAIA_LISTEN_ADDR"}, "listen"},
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		BaseURL:            "https://generativelanguage.googleapis.com/v1beta",
		Model:              "gemini-1.5-flash",
		EmbeddingModel:     "text-embedding-004",
		EmbeddingDimension: 768,
		LogLevel:           "", // info, or debug with --debug
		MilvusAddress:      "localhost:19530",
		MilvusCollection:   "gaia_embeddings",
		ListenAddr:         "127.0.0.1:8080",
	}
}

// Load reads the configuration. flags may be nil; only flags that were set
// explicitly override the environment.
func Load(flags *pflag.FlagSet) (Config, error) {
	def := Defaults()

	v := viper.New()
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("model", def.Model)
	v.SetDefault("embedding_model", def.EmbeddingModel)
	v.SetDefault("embedding_dimension", def.EmbeddingDimension)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("milvus_address", def.MilvusAddress)
	v.SetDefault("milvus_collection", def.MilvusCollection)
	v.SetDefault("listen_addr", def.ListenAddr)

	for _, b := range bindings {
		if err := v.BindEnv(append([]string{b.key}, b.envs...)...); err != nil {
			return Config{}, fmt.Errorf("%w: bind %s: %v", ErrInvalidConfig, b.key, err)
		}
		if flags == nil {
			continue
		}
		if f := flags.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return Config{}, fmt.Errorf("%w: bind flag %s: %v", ErrInvalidConfig, b.flag, err)
			}
		}
	}

	cfg := Config{
		APIKey:             v.GetString("api_key"),
		BaseURL:            v.GetString("base_url"),
		Model:              v.GetString("model"),
		EmbeddingModel:     v.GetString("embedding_model"),
		EmbeddingDimension: v.GetInt("embedding_dimension"),
		LogLevel:           v.GetString("log_level"),
		Debug:              v.GetBool("debug"),
		MilvusAddress:      v.GetString("milvus_address"),
		MilvusCollection:   v.GetString("milvus_collection"),
		ListenAddr:         v.GetString("listen_addr"),
	}

	if cfg.EmbeddingDimension <= 0 {
		return Config{}, fmt.Errorf("%w: embedding dimension must be positive, got %d", ErrInvalidConfig, cfg.EmbeddingDimension)
	}
	return cfg, nil
}

// Validate checks the settings every API-calling command requires.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
