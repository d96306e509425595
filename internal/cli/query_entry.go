// internal/cli/query_entry.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ragzotero/rag-zotero/internal/appconfig"
	"github.com/ragzotero/rag-zotero/internal/embed"
	"github.com/ragzotero/rag-zotero/internal/util"
	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

const resultTextWidth = 80

type queryResultRow struct {
	Score      float64        `json:"score"`
	Title      string         `json:"title"`
	Year       string         `json:"year"`
	SourcePath string         `json:"source_path"`
	Page       string         `json:"page"`
	Text       string         `json:"text"`
	Metadata   map[string]any `json:"metadata"`
}

type queryReport struct {
	Backend string           `json:"backend"`
	Query   string           `json:"query"`
	N       int              `json:"n"`
	Results []queryResultRow `json:"results"`
}

// search embeds the query and runs the nearest-neighbor lookup.
func search(ctx context.Context, cfg *appconfig.Config, query string, n int) ([]vectorstore.Result, string, error) {
	embedder, err := embed.Resolve(embed.Options{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIEmbedModel,
		OllamaURL:    cfg.OllamaURL,
		OllamaModel:  cfg.OllamaEmbedModel,
	})
	if err != nil {
		return nil, "", err
	}

	embedding, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, embedder.Backend(), fmt.Errorf("embed query: %w", err)
	}

	store, err := vectorstore.Open(cfg.StorePath(), cfg.Collection)
	if err != nil {
		return nil, embedder.Backend(), err
	}
	defer store.Close()

	results, err := store.Query(ctx, embedding, n)
	if err != nil {
		return nil, embedder.Backend(), err
	}
	return results, embedder.Backend(), nil
}

// runQuery executes the query and renders the results.
func runQuery(ctx context.Context, cfg *appconfig.Config, out io.Writer, query string, n int, jsonOutput bool) error {
	results, backend, err := search(ctx, cfg, query, n)
	if err != nil {
		return err
	}

	if jsonOutput {
		report := queryReport{
			Backend: backend,
			Query:   query,
			N:       n,
			Results: make([]queryResultRow, 0, len(results)),
		}
		for _, r := range results {
			report.Results = append(report.Results, queryResultRow{
				Score:      r.Score,
				Title:      metaString(r.Metadata, "title"),
				Year:       metaString(r.Metadata, "year"),
				SourcePath: metaString(r.Metadata, "source_path"),
				Page:       metaString(r.Metadata, "page"),
				Text:       util.FlattenText(r.Text),
				Metadata:   r.Metadata,
			})
		}
		return json.NewEncoder(out).Encode(report)
	}

	fmt.Fprintf(out, "Embeddings backend: %s\n", backend)
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}

	fmt.Fprintln(out, renderResultsTable(results))
	return nil
}

// renderResultsTable builds the "Top matches" table.
func renderResultsTable(results []vectorstore.Result) string {
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
		Headers("Score", "Title", "Year", "Source", "Page", "Text")

	for _, r := range results {
		title := metaString(r.Metadata, "title")
		if creators := metaString(r.Metadata, "creators"); creators != "" {
			title += "\nCreators: " + creators
		}
		t.Row(
			fmt.Sprintf("%.3f", r.Score),
			title,
			metaString(r.Metadata, "year"),
			metaString(r.Metadata, "source_path"),
			metaString(r.Metadata, "page"),
			util.TruncateRunes(util.FlattenText(r.Text), resultTextWidth),
		)
	}
	return t.Render()
}

// metaString renders a metadata field as a display string. Whole-number
// floats (JSON round-tripped ints, e.g. years and pages) are printed
// without a decimal part.
func metaString(meta map[string]any, field string) string {
	v, ok := meta[field]
	if !ok || v == nil {
		return ""
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
