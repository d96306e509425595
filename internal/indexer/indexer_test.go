package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ragzotero/rag-zotero/internal/vectorstore"
)

// fakeEmbedder returns a fixed-dimension vector derived from text length.
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = []float32{float32(len(t)), 1}
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := f.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) Backend() string { return "fake" }

func openTestStore(t *testing.T) *vectorstore.Store {
	t.Helper()
	store, err := vectorstore.OpenDSN(":memory:")
	if err != nil {
		t.Fatalf("OpenDSN: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIndexFileStoresChunks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")
	text := strings.Repeat("relevant words about retrieval systems. ", 20)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := openTestStore(t)
	emb := &fakeEmbedder{}
	res, err := IndexFile(context.Background(), store, emb, path, Options{
		ChunkSize:     200,
		ChunkOverlap:  40,
		ExtraMetadata: map[string]any{"title": "Paper", "year": 2020, "creators": []string{"A", "B"}, "doi": ""},
	})
	if err != nil {
		t.Fatalf("IndexFile: %v", err)
	}
	if res.ChunksAdded == 0 {
		t.Fatalf("expected chunks to be added")
	}
	if emb.calls != 1 {
		t.Fatalf("expected one batch embedding call, got %d", emb.calls)
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != res.ChunksAdded {
		t.Fatalf("store count %d != chunks added %d", n, res.ChunksAdded)
	}

	results, err := store.Query(context.Background(), []float32{100, 1}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	meta := results[0].Metadata
	if meta["title"] != "Paper" {
		t.Fatalf("expected title metadata, got %v", meta)
	}
	if meta["creators"] != "A; B" {
		t.Fatalf("expected joined creators, got %v", meta["creators"])
	}
	if _, ok := meta["doi"]; ok {
		t.Fatalf("expected empty doi to be dropped, got %v", meta["doi"])
	}
	if meta["source_path"] != path {
		t.Fatalf("expected source_path %s, got %v", path, meta["source_path"])
	}
}

func TestIndexFileEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := openTestStore(t)
	res, err := IndexFile(context.Background(), store, &fakeEmbedder{}, path, Options{ChunkSize: 100, ChunkOverlap: 10})
	if err != nil {
		t.Fatalf("IndexFile: %v", err)
	}
	if res.ChunksAdded != 0 {
		t.Fatalf("expected zero chunks for empty file, got %d", res.ChunksAdded)
	}
}

func TestIndexFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("some markdown content that will be chunked"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := openTestStore(t)
	opts := Options{ChunkSize: 100, ChunkOverlap: 10}
	first, err := IndexFile(context.Background(), store, &fakeEmbedder{}, path, opts)
	if err != nil {
		t.Fatalf("first IndexFile: %v", err)
	}
	second, err := IndexFile(context.Background(), store, &fakeEmbedder{}, path, opts)
	if err != nil {
		t.Fatalf("second IndexFile: %v", err)
	}
	if first.ChunksAdded != second.ChunksAdded {
		t.Fatalf("expected stable chunk count, got %d then %d", first.ChunksAdded, second.ChunksAdded)
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != first.ChunksAdded {
		t.Fatalf("re-indexing duplicated chunks: count %d, expected %d", n, first.ChunksAdded)
	}
}

func TestChunkIDStable(t *testing.T) {
	a := chunkID("/x/paper.pdf", 3, 1)
	b := chunkID("/x/paper.pdf", 3, 1)
	c := chunkID("/x/paper.pdf", 3, 2)
	if a != b {
		t.Fatalf("expected stable id, got %s and %s", a, b)
	}
	if a == c {
		t.Fatalf("expected distinct ids for distinct chunks")
	}
	if len(a) != 40 {
		t.Fatalf("expected sha1 hex id, got %q", a)
	}
}

func TestSanitizeMetadata(t *testing.T) {
	out := sanitizeMetadata(map[string]any{
		"title":      "T",
		"year":       2020,
		"creators":   []string{"Ada Lovelace", "Alan Turing"},
		"empty_list": []string{},
		"none":       nil,
		"obj":        map[string]any{"a": 1},
	})
	if out["title"] != "T" || out["year"] != 2020 {
		t.Fatalf("unexpected scalars: %v", out)
	}
	if out["creators"] != "Ada Lovelace; Alan Turing" {
		t.Fatalf("expected joined creators, got %v", out["creators"])
	}
	if _, ok := out["empty_list"]; ok {
		t.Fatalf("expected empty list to be dropped")
	}
	if _, ok := out["none"]; ok {
		t.Fatalf("expected nil value to be dropped")
	}
	if _, ok := out["obj"].(string); !ok {
		t.Fatalf("expected structured value to be stringified, got %T", out["obj"])
	}
}
