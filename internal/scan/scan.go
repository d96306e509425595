// Package scan discovers indexable files under a Zotero storage directory.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file types considered indexable.
var DefaultExtensions = []string{".pdf", ".txt", ".md"}

// Storage walks storageDir recursively and returns the sorted list of
// files whose extension is in exts (DefaultExtensions when exts is
// empty). It fails when storageDir does not exist or is not a directory.
func Storage(storageDir string, exts []string) ([]string, error) {
	info, err := os.Stat(storageDir)
	if err != nil {
		return nil, fmt.Errorf("stat storage dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", storageDir)
	}

	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	err = filepath.WalkDir(storageDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk storage dir: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// AttachmentKey derives the Zotero attachment key for a scanned file:
// the first path segment of the file relative to the storage directory.
// It returns an empty string when the file is not under storageDir.
func AttachmentKey(filePath, storageDir string) string {
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return ""
	}
	absDir, err := filepath.Abs(storageDir)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absDir, absFile)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return ""
	}
	first, _, _ := strings.Cut(rel, "/")
	return strings.TrimSpace(first)
}
