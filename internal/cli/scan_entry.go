// internal/cli/scan_entry.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ragzotero/rag-zotero/internal/scan"
	"github.com/ragzotero/rag-zotero/internal/zotero"
)

// matchSampleSize is how many scanned files are probed for export
// metadata before warning that nothing matched.
const matchSampleSize = 50

// scanFileRow always carries attachment_key so the JSON shape stays
// stable; it is null when the key cannot be resolved.
type scanFileRow struct {
	Path          string         `json:"path"`
	AttachmentKey *string        `json:"attachment_key"`
	Metadata      map[string]any `json:"metadata"`
}

type scanReport struct {
	StorageDir string         `json:"storage_dir"`
	FilesTotal int            `json:"files_total"`
	Files      []scanFileRow  `json:"files"`
	Export     map[string]int `json:"export"`
}

// runScan discovers candidate files and prints them, joined with
// export metadata when an export file is given.
func runScan(out io.Writer, storageDir, exportJSON string, limit int, jsonOutput bool) error {
	files, err := scan.Storage(storageDir, nil)
	if err != nil {
		return err
	}

	exportIndex, exportStats, err := loadExport(out, exportJSON)
	if err != nil {
		return err
	}

	if limit < 0 {
		limit = 0
	}
	shown := files
	if len(shown) > limit {
		shown = shown[:limit]
	}

	if jsonOutput {
		report := scanReport{
			StorageDir: storageDir,
			FilesTotal: len(files),
			Files:      make([]scanFileRow, 0, len(shown)),
			Export:     map[string]int{},
		}
		if exportStats != nil {
			report.Export = exportStats
		}
		for _, path := range shown {
			row := scanFileRow{Path: path, Metadata: map[string]any{}}
			if key := scan.AttachmentKey(path, storageDir); key != "" {
				row.AttachmentKey = &key
				if exportIndex != nil {
					row.Metadata = exportIndex.MetadataForAttachment(key)
				}
			}
			report.Files = append(report.Files, row)
		}
		return json.NewEncoder(out).Encode(report)
	}

	fmt.Fprintf(out, "Found %d files\n", len(files))
	if exportStats != nil {
		fmt.Fprintf(out, "Loaded export: %d items, %d attachment links\n",
			exportStats["items"], exportStats["attachment_links"])
		warnWhenNothingMatches(out, files, storageDir, exportIndex)
	}

	for _, path := range shown {
		line := path
		if exportIndex != nil {
			if key := scan.AttachmentKey(path, storageDir); key != "" {
				if suffix := metadataLine(exportIndex.MetadataForAttachment(key)); suffix != "" {
					line = fmt.Sprintf("%s '%s'", suffix, path)
				}
			}
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// loadExport reads, schema-checks, and parses a library export. A
// schema mismatch is only a warning; parsing still decides.
func loadExport(out io.Writer, path string) (*zotero.ExportIndex, map[string]int, error) {
	if path == "" {
		return nil, nil, nil
	}

	raw, err := readExport(path)
	if err != nil {
		return nil, nil, err
	}
	if err := zotero.ValidateExport(raw); err != nil {
		color.New(color.FgYellow).Fprintf(out, "Warning: %v\n", err)
	}
	index, err := zotero.ParseExport(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse export %s: %w", path, err)
	}

	stats := map[string]int{
		"items":            len(index.ItemsByKey),
		"attachment_links": len(index.AttachmentParent),
	}
	return index, stats, nil
}

func readExport(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return raw, nil
}

// warnWhenNothingMatches probes the first files for export metadata and
// warns when none of them resolve, which usually means the wrong export
// flavor was supplied.
func warnWhenNothingMatches(out io.Writer, files []string, storageDir string, index *zotero.ExportIndex) {
	sample := files
	if len(sample) > matchSampleSize {
		sample = sample[:matchSampleSize]
	}
	if len(sample) == 0 {
		return
	}

	matched := 0
	for _, path := range sample {
		key := scan.AttachmentKey(path, storageDir)
		if key == "" {
			continue
		}
		meta := index.MetadataForAttachment(key)
		for _, field := range []string{"title", "year", "doi", "url", "citekey"} {
			if v, ok := meta[field]; ok && fmt.Sprintf("%v", v) != "" {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		color.New(color.FgYellow).Fprintln(out,
			"No attachment metadata matched scanned files. "+
				"Ensure you exported a full library as Zotero JSON or BetterBibTeX JSON "+
				"(not CSL JSON/bibliography exports, which typically lack attachment keys).")
	}
}

// metadataLine renders "year citekey title" for a metadata record,
// skipping missing fields.
func metadataLine(meta map[string]any) string {
	var parts []string
	for _, field := range []string{"year", "citekey", "title"} {
		v, ok := meta[field]
		if !ok {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
