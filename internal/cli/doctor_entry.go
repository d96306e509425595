// internal/cli/doctor_entry.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/ragzotero/rag-zotero/internal/appconfig"
	"github.com/ragzotero/rag-zotero/internal/embed"
	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

// runDoctor prints a diagnostic table for the current configuration.
// With live set, it issues a real one-shot embedding request.
func runDoctor(ctx context.Context, cfg *appconfig.Config, out io.Writer, live bool) error {
	backend := "unavailable"
	embedOK := false

	embedder, err := embed.Resolve(embed.Options{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIEmbedModel,
		OllamaURL:    cfg.OllamaURL,
		OllamaModel:  cfg.OllamaEmbedModel,
	})
	if err != nil {
		color.New(color.FgYellow).Fprintf(out, "Embeddings not ready: %v\n", err)
	} else {
		backend = embedder.Backend()
		embedOK = true
		if live {
			if _, err := embedder.EmbedQuery(ctx, "ping"); err != nil {
				embedOK = false
				color.New(color.FgYellow).Fprintf(out, "Live embedding failed: %v\n", err)
			}
		}
	}

	rows := [][]string{
		{"Go", runtime.Version()},
		{"Store dir", cfg.StorePath()},
		{"Collection", cfg.Collection},
		{"Chunking", fmt.Sprintf("%d chars, %d overlap", cfg.ChunkSize, cfg.ChunkOverlap)},
		{"Embeddings", backend},
		{"Embeddings OK", strconv.FormatBool(embedOK)},
		{"Indexed chunks", storedChunkCount(ctx, cfg)},
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Key", "Value").
		Rows(rows...)

	fmt.Fprintln(out, t.Render())
	return nil
}

// storedChunkCount reports the chunk count of the configured
// collection, without creating the store as a side effect.
func storedChunkCount(ctx context.Context, cfg *appconfig.Config) string {
	path := filepath.Join(cfg.StorePath(), cfg.Collection+".sqlite")
	if _, err := os.Stat(path); err != nil {
		return "0 (no store)"
	}
	store, err := vectorstore.OpenDSN(path)
	if err != nil {
		return "unreadable"
	}
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		return "unreadable"
	}
	return strconv.Itoa(n)
}
