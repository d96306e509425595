package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOllamaURL is the stock local Ollama endpoint.
	DefaultOllamaURL = "http://localhost:11434"
	// DefaultOllamaModel is used when no local embedding model is configured.
	DefaultOllamaModel = "nomic-embed-text"

	defaultOllamaTimeout    = 120 * time.Second
	defaultBatchConcurrency = 4
)

// Ollama embeds text through a local Ollama instance's /api/embeddings
// endpoint, one request per text.
type Ollama struct {
	client      *http.Client
	url         string
	model       string
	concurrency int
}

// NewOllama creates an Ollama-backed embedder. concurrency bounds the
// number of in-flight embedding requests during batch embedding.
func NewOllama(url, model string, concurrency int) *Ollama {
	if url == "" {
		url = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &Ollama{
		client:      &http.Client{Timeout: defaultOllamaTimeout},
		url:         strings.TrimRight(url, "/"),
		model:       model,
		concurrency: concurrency,
	}
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedQuery requests an embedding vector for a single text.
func (o *Ollama) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	payload := map[string]any{
		"model":  o.model,
		"prompt": query,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	var parsed ollamaEmbeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response returned empty vector")
	}
	return parsed.Embedding, nil
}

// EmbedTexts embeds the batch with bounded concurrency, preserving
// input order. The first failure aborts the batch.
func (o *Ollama) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	errs := make(chan error, len(texts))
	sem := make(chan struct{}, o.concurrency)

	for i := range texts {
		sem <- struct{}{}
		go func(idx int) {
			defer func() { <-sem }()
			vec, err := o.EmbedQuery(ctx, texts[idx])
			if err != nil {
				errs <- fmt.Errorf("embed text %d: %w", idx, err)
				return
			}
			vectors[idx] = vec
			errs <- nil
		}(i)
	}

	var firstErr error
	for range texts {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Backend reports the provider name.
func (o *Ollama) Backend() string { return "ollama" }
