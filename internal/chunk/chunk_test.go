package chunk

import (
	"strings"
	"testing"
)

func TestSplitEmptyInput(t *testing.T) {
	if got := Split("   \n\t  ", 100, 10); got != nil {
		t.Fatalf("expected nil for whitespace input, got %v", got)
	}
}

func TestSplitNonPositiveSizeReturnsWholeText(t *testing.T) {
	got := Split("hello world", 0, 10)
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("expected single whole-text chunk, got %v", got)
	}
}

func TestSplitOverlap(t *testing.T) {
	text := strings.Repeat("a", 10)
	got := Split(text, 4, 2)
	want := []string{"aaaa", "aaaa", "aaaa", "aaaa"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitOverlapClampedBelowSize(t *testing.T) {
	text := strings.Repeat("b", 50)
	got := Split(text, 10, 10)
	if len(got) == 0 {
		t.Fatalf("expected chunks, got none")
	}
	// overlap collapses to size/4, so the window still advances
	for _, c := range got {
		if len(c) > 10 {
			t.Fatalf("chunk longer than size: %q", c)
		}
	}
}

func TestSplitNegativeOverlapTreatedAsZero(t *testing.T) {
	text := strings.Repeat("c", 12)
	got := Split(text, 4, -3)
	if len(got) != 3 {
		t.Fatalf("expected 3 non-overlapping chunks, got %d: %v", len(got), got)
	}
}

func TestSplitCoversAllText(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs."
	got := Split(text, 20, 5)
	joined := strings.Join(got, "")
	if !strings.Contains(joined, "liquor") {
		t.Fatalf("expected tail of text to be covered, got %v", got)
	}
}
