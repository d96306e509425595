// internal/cli/eval_entry.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ragzotero/rag-zotero/internal/appconfig"
	"github.com/ragzotero/rag-zotero/internal/eval"
	"github.com/ragzotero/rag-zotero/internal/util"
	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

const evalSnippetWidth = 500

// runEval retrieves results for the query and has the configured
// OpenRouter model score their relevance.
func runEval(ctx context.Context, cfg *appconfig.Config, out io.Writer, query string, n int) error {
	results, backend, err := search(ctx, cfg, query, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Embeddings backend: %s\n", backend)
	if len(results) == 0 {
		fmt.Fprintln(out, "No results to evaluate.")
		return nil
	}

	candidates := make([]eval.Candidate, 0, len(results))
	for i, r := range results {
		candidates = append(candidates, eval.Candidate{
			Idx:   i,
			Title: metaString(r.Metadata, "title"),
			Text:  util.TruncateRunes(util.FlattenText(r.Text), evalSnippetWidth),
		})
	}

	report, err := eval.EvaluateRelevance(ctx, cfg.OpenRouterAPIKey, cfg.OpenRouterEvalModel, query, candidates)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Evaluator: %s (%s)\n", report.Model, report.Provider)
	fmt.Fprintln(out, renderEvalTable(report, results))
	return nil
}

// renderEvalTable lines the evaluator's verdicts up with the retrieved
// sources.
func renderEvalTable(report eval.Report, results []vectorstore.Result) string {
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
		Headers("Idx", "Score", "Source", "Rationale")

	for _, item := range report.Items {
		source := ""
		if item.Idx >= 0 && item.Idx < len(results) {
			source = metaString(results[item.Idx].Metadata, "source_path")
		}
		t.Row(
			fmt.Sprintf("%d", item.Idx),
			fmt.Sprintf("%.2f", item.Score),
			source,
			item.Rationale,
		)
	}
	return t.Render()
}
