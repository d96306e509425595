// internal/cli/index_entry.go
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/fatih/color"
	"github.com/ragzotero/rag-zotero/internal/appconfig"
	"github.com/ragzotero/rag-zotero/internal/embed"
	"github.com/ragzotero/rag-zotero/internal/indexer"
	"github.com/ragzotero/rag-zotero/internal/logging"
	"github.com/ragzotero/rag-zotero/internal/scan"
	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

const progressBarWidth = 40

// runIndex drives the indexing pipeline over every file in the storage
// folder.
func runIndex(ctx context.Context, cfg *appconfig.Config, out io.Writer, storageDir, exportJSON string, limit int, continueOnError bool) error {
	embedder, err := embed.Resolve(embed.Options{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIEmbedModel,
		OllamaURL:    cfg.OllamaURL,
		OllamaModel:  cfg.OllamaEmbedModel,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Embeddings backend: %s\n", embedder.Backend())

	fmt.Fprintln(out, "Scanning storage...")
	files, err := scan.Storage(storageDir, nil)
	if err != nil {
		return err
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	fmt.Fprintf(out, "Found %d files\n", len(files))
	if len(files) == 0 {
		return nil
	}

	exportIndex, exportStats, err := loadExport(out, exportJSON)
	if err != nil {
		return err
	}
	if exportStats != nil {
		fmt.Fprintf(out, "Loaded export: %d items, %d attachment links\n",
			exportStats["items"], exportStats["attachment_links"])
	}

	store, err := vectorstore.Open(cfg.StorePath(), cfg.Collection)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	status := logging.StatusFunc(start)
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = progressBarWidth

	indexed := 0
	totalChunks := 0
	failed := 0
	for i, path := range files {
		name := filepath.Base(path)

		var extraMeta map[string]any
		if exportIndex != nil {
			if key := scan.AttachmentKey(path, storageDir); key != "" {
				extraMeta = exportIndex.MetadataForAttachment(key)
			}
		}

		result, err := indexer.IndexFile(ctx, store, embedder, path, indexer.Options{
			ChunkSize:     cfg.ChunkSize,
			ChunkOverlap:  cfg.ChunkOverlap,
			ExtraMetadata: extraMeta,
			Status: func(format string, args ...any) {
				status("%s: %s", name, fmt.Sprintf(format, args...))
			},
		})
		if err != nil {
			failed++
			logging.LogEvent("%s: failed (%v)", name, err)
			color.New(color.FgRed).Fprintf(out, "%s: failed (%v)\n", name, err)
			if !continueOnError {
				return fmt.Errorf("index %s: %w", path, err)
			}
		} else {
			indexed++
			totalChunks += result.ChunksAdded
		}

		done := i + 1
		fmt.Fprintf(out, "%s %d/%d %s\n", bar.ViewAs(float64(done)/float64(len(files))), done, len(files), name)
	}

	summary := fmt.Sprintf("Indexed %d files, added %d chunks", indexed, totalChunks)
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	logging.LogEvent("%s in %s", summary, time.Since(start).Truncate(time.Millisecond))
	fmt.Fprintln(out, summary)
	return nil
}
