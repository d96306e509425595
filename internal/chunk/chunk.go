// Package chunk splits extracted document text into overlapping
// character windows sized for embedding.
package chunk

import "strings"

// Split cuts text into chunks of at most size characters with the given
// overlap between consecutive chunks. Whitespace-only input yields nil.
// A non-positive size returns the whole text as a single chunk. A
// negative overlap is clamped to zero; an overlap at or above size is
// clamped to size/4 so the window always advances.
func Split(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}

	var chunks []string
	runes := []rune(text)
	start := 0
	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
		if end >= len(runes) {
			break
		}
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}
