package cli

import (
	"strings"
	"testing"

	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

func TestMetaString(t *testing.T) {
	meta := map[string]any{
		"year":     float64(2021),
		"page":     float64(3),
		"score":    0.75,
		"title":    "  Padded  ",
		"creators": "Doe; Roe",
		"missing":  nil,
	}

	cases := []struct {
		field string
		want  string
	}{
		{"year", "2021"},
		{"page", "3"},
		{"score", "0.75"},
		{"title", "Padded"},
		{"creators", "Doe; Roe"},
		{"missing", ""},
		{"absent", ""},
	}
	for _, tc := range cases {
		if got := metaString(meta, tc.field); got != tc.want {
			t.Errorf("metaString(%q) = %q, want %q", tc.field, got, tc.want)
		}
	}
}

func TestRenderResultsTable(t *testing.T) {
	results := []vectorstore.Result{
		{
			Score: 0.912,
			Text:  "Attention   is all\nyou need for sequence transduction models.",
			Metadata: map[string]any{
				"title":    "Attention Is All You Need",
				"creators": "Vaswani; Shazeer",
				"year":     float64(2017),
				"page":     float64(1),
			},
		},
	}

	rendered := renderResultsTable(results)
	for _, want := range []string{"0.912", "Attention Is All You Need", "Creators: Vaswani; Shazeer", "2017"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered table missing %q:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, "\nyou need for sequence") {
		t.Fatalf("expected flattened snippet text:\n%s", rendered)
	}
}
