// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names for .env handling.
const (
	// EnvFileVar points at an explicit .env file to load.
	EnvFileVar = "RAG_ZOTERO_ENV_FILE"
	// DotenvOverrideVar, when truthy, lets .env values override variables
	// already set in the environment.
	DotenvOverrideVar = "RAG_ZOTERO_DOTENV_OVERRIDE"
)

// Defaults applied when the environment does not specify a value.
const (
	DefaultStoreDir     = "./data/store"
	DefaultCollection   = "zotero"
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
)

// Config is the merged application configuration.
type Config struct {
	StoreDir   string
	Collection string

	OpenAIAPIKey     string
	OpenAIEmbedModel string

	OpenRouterAPIKey    string
	OpenRouterEvalModel string

	OllamaURL        string
	OllamaEmbedModel string

	ChunkSize    int
	ChunkOverlap int

	// LogFile, when set, mirrors status output to a log file.
	LogFile string
}

// StorePath returns the vector store directory as an absolute path.
func (c *Config) StorePath() string {
	abs, err := filepath.Abs(c.StoreDir)
	if err != nil {
		return c.StoreDir
	}
	return abs
}

// Load reads the configuration: a .env file first (RAG_ZOTERO_ENV_FILE,
// or ./.env when present), then the environment. .env values do not
// override already-set environment variables unless
// RAG_ZOTERO_DOTENV_OVERRIDE is truthy.
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("STORE_DIR", DefaultStoreDir)
	v.SetDefault("STORE_COLLECTION", DefaultCollection)
	v.SetDefault("OPENAI_EMBED_MODEL", "text-embedding-3-small")
	v.SetDefault("OPENROUTER_EVAL_MODEL", "openai/gpt-4o-mini")
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_EMBED_MODEL", "nomic-embed-text")
	v.SetDefault("CHUNK_SIZE", DefaultChunkSize)
	v.SetDefault("CHUNK_OVERLAP", DefaultChunkOverlap)

	cfg := &Config{
		StoreDir:            v.GetString("STORE_DIR"),
		Collection:          v.GetString("STORE_COLLECTION"),
		OpenAIAPIKey:        v.GetString("OPENAI_API_KEY"),
		OpenAIEmbedModel:    v.GetString("OPENAI_EMBED_MODEL"),
		OpenRouterAPIKey:    v.GetString("OPENROUTER_API_KEY"),
		OpenRouterEvalModel: v.GetString("OPENROUTER_EVAL_MODEL"),
		OllamaURL:           v.GetString("OLLAMA_URL"),
		OllamaEmbedModel:    v.GetString("OLLAMA_EMBED_MODEL"),
		ChunkSize:           v.GetInt("CHUNK_SIZE"),
		ChunkOverlap:        v.GetInt("CHUNK_OVERLAP"),
		LogFile:             v.GetString("LOG_FILE"),
	}

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than zero")
	}
	if cfg.ChunkOverlap < 0 {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be zero or greater")
	}
	return cfg, nil
}

// loadDotenv loads the configured .env file. An explicitly configured
// file must exist; the implicit ./.env is optional.
func loadDotenv() error {
	override := isTruthy(os.Getenv(DotenvOverrideVar))

	path := strings.TrimSpace(os.Getenv(EnvFileVar))
	if path != "" {
		if err := loadDotenvFile(path, override); err != nil {
			return fmt.Errorf("load %s=%s: %w", EnvFileVar, path, err)
		}
		return nil
	}

	if _, err := os.Stat(".env"); err == nil {
		return loadDotenvFile(".env", override)
	}
	return nil
}

func loadDotenvFile(path string, override bool) error {
	if override {
		return godotenv.Overload(path)
	}
	return godotenv.Load(path)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
