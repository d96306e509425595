// Package indexer runs the extract → chunk → embed → store pipeline
// for one file at a time.
package indexer

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/ragzotero/rag-zotero/internal/chunk"
	"github.com/ragzotero/rag-zotero/internal/embed"
	"github.com/ragzotero/rag-zotero/internal/extract"
	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

// Result reports what indexing a single file added to the store.
type Result struct {
	Path        string
	ChunksAdded int
}

// StatusFunc receives human-readable progress messages during indexing.
type StatusFunc func(format string, args ...any)

// Options configures the per-file pipeline.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	// ExtraMetadata is merged (sanitized) into every chunk's metadata,
	// typically the bibliographic record for the file's attachment key.
	ExtraMetadata map[string]any
	Status        StatusFunc
}

// IndexFile extracts the file, chunks each page, embeds the chunks in
// one batch, and upserts them into the store. Re-indexing the same file
// overwrites its previous chunks because chunk IDs are derived from the
// source path, page, and chunk position.
func IndexFile(ctx context.Context, store *vectorstore.Store, embedder embed.Embedder, path string, opts Options) (Result, error) {
	status := opts.Status
	if status == nil {
		status = func(string, ...any) {}
	}

	pages, err := extract.File(path)
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}

	extraMeta := sanitizeMetadata(opts.ExtraMetadata)

	var chunks []vectorstore.Chunk
	for _, page := range pages {
		pieces := chunk.Split(page.Text, opts.ChunkSize, opts.ChunkOverlap)
		for i, piece := range pieces {
			meta := map[string]any{
				"source_path": path,
				"page":        page.PageNumber,
				"chunk":       i,
			}
			for k, v := range extraMeta {
				meta[k] = v
			}
			chunks = append(chunks, vectorstore.Chunk{
				ID:       chunkID(path, page.PageNumber, i),
				Text:     piece,
				Metadata: meta,
			})
		}
	}
	if len(chunks) == 0 {
		status("no text extracted")
		return Result{Path: path}, nil
	}
	status("extracted %d pages, %d chunks", len(pages), len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return Result{}, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return Result{}, fmt.Errorf("embed: expected %d vectors, got %d", len(chunks), len(vectors))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := store.Upsert(ctx, chunks); err != nil {
		return Result{}, fmt.Errorf("store: %w", err)
	}
	status("stored %d chunks", len(chunks))

	return Result{Path: path, ChunksAdded: len(chunks)}, nil
}

// chunkID derives a stable chunk identifier from the source path, the
// 1-based page number, and the chunk position within the page.
func chunkID(sourcePath string, page, index int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s::p%d::c%d", sourcePath, page, index)))
	return hex.EncodeToString(sum[:])
}
