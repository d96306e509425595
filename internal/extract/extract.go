// Package extract pulls plain text out of the file types the indexer
// understands: page-wise for PDFs, whole-file for txt and markdown.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of a single document page. PageNumber is
// 1-based.
type Page struct {
	PageNumber int
	Text       string
}

// File extracts the pages of the file at path. Plain-text formats are
// returned as a single page. Unsupported extensions are an error.
func File(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfPages(path)
	case ".txt", ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return []Page{{PageNumber: 1, Text: string(raw)}}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// pdfPages extracts text per page. When the PDF reader cannot parse the
// file, it falls back to scraping printable characters out of the raw
// bytes and returns them as a single page.
func pdfPages(path string) ([]Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		text := printableText(content)
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("parse pdf %s: %w", path, err)
		}
		return []Page{{PageNumber: 1, Text: text}}, nil
	}

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, Page{PageNumber: i})
			continue
		}
		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			pages = append(pages, Page{PageNumber: i})
			continue
		}
		pages = append(pages, Page{PageNumber: i, Text: text})
	}
	return pages, nil
}

// printableText keeps printable runes (plus tabs and newlines) and drops
// everything else. Last-resort extraction for malformed PDFs.
func printableText(in []byte) string {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			out.WriteRune(r)
		}
	}
	return out.String()
}
