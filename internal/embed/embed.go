// Package embed computes vector embeddings for text chunks through an
// external provider: the OpenAI API when a key is configured, otherwise
// a local Ollama instance.
package embed

import (
	"context"
	"fmt"
	"strings"
)

// Embedder computes embedding vectors for chunk and query text.
type Embedder interface {
	// EmbedTexts embeds a batch of texts, one vector per input, in order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	// Backend names the provider, e.g. "openai" or "ollama".
	Backend() string
}

// Options selects and configures the embedding backend.
type Options struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	OllamaURL       string
	OllamaModel     string
	BatchConcurrent int
}

// Resolve picks the embedding backend: OpenAI when an API key is
// configured, Ollama when a URL is configured, otherwise an error
// explaining both options.
func Resolve(opts Options) (Embedder, error) {
	if strings.TrimSpace(opts.OpenAIAPIKey) != "" {
		return NewOpenAI(opts.OpenAIAPIKey, opts.OpenAIModel), nil
	}
	if strings.TrimSpace(opts.OllamaURL) != "" {
		return NewOllama(opts.OllamaURL, opts.OllamaModel, opts.BatchConcurrent), nil
	}
	return nil, fmt.Errorf("no embeddings backend configured: set OPENAI_API_KEY for the OpenAI API, or OLLAMA_URL for a local Ollama instance")
}
