// Package zotero reads Zotero and BetterBibTeX JSON library exports and
// resolves bibliographic metadata for storage attachments.
package zotero

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var yearRe = regexp.MustCompile(`\d{4}`)

// Item is one bibliographic entry from a library export.
type Item struct {
	Key      string
	ItemType string
	Title    string
	Creators []string
	Year     int
	DOI      string
	URL      string
	CiteKey  string
}

// ExportIndex is the parsed library export: items by key plus the
// attachment-key to parent-item-key linkage.
type ExportIndex struct {
	ItemsByKey       map[string]*Item
	AttachmentParent map[string]string
}

// MetadataForAttachment returns the metadata record for an attachment
// key. The record always carries attachment_key; the remaining fields
// are present only when the attachment resolves to a known parent item.
func (x *ExportIndex) MetadataForAttachment(attachmentKey string) map[string]any {
	meta := map[string]any{"attachment_key": attachmentKey}
	parentKey, ok := x.AttachmentParent[attachmentKey]
	if !ok {
		return meta
	}
	if parentKey != "" {
		meta["item_key"] = parentKey
	}
	item := x.ItemsByKey[parentKey]
	if item == nil {
		return meta
	}
	meta["title"] = item.Title
	meta["creators"] = item.Creators
	if item.Year != 0 {
		meta["year"] = item.Year
	}
	meta["doi"] = item.DOI
	meta["url"] = item.URL
	meta["citekey"] = item.CiteKey
	return meta
}

// LoadExport reads and parses a library export file.
func LoadExport(path string) (*ExportIndex, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	index, err := ParseExport(raw)
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}
	return index, nil
}

// ParseExport parses raw export JSON. Accepted shapes: a top-level item
// array, or an object with an "items" array (BetterBibTeX). Row fields
// may be flat or nested under "data" (Zotero API style).
func ParseExport(raw []byte) (*ExportIndex, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	rows, err := exportRows(payload)
	if err != nil {
		return nil, err
	}

	index := &ExportIndex{
		ItemsByKey:       make(map[string]*Item),
		AttachmentParent: make(map[string]string),
	}
	for _, row := range rows {
		index.addRow(row)
	}
	return index, nil
}

func exportRows(payload any) ([]map[string]any, error) {
	var list []any
	switch v := payload.(type) {
	case []any:
		list = v
	case map[string]any:
		items, ok := v["items"].([]any)
		if !ok {
			return nil, fmt.Errorf("unsupported export structure (expected list or {\"items\": [...]})")
		}
		list = items
	default:
		return nil, fmt.Errorf("unsupported export structure (expected list or {\"items\": [...]})")
	}

	rows := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if row, ok := entry.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (x *ExportIndex) addRow(row map[string]any) {
	fields := row
	if data, ok := row["data"].(map[string]any); ok {
		fields = data
	}

	key := firstString(row, "key", "itemKey")
	if key == "" {
		key = firstString(fields, "key", "itemKey")
	}
	if key == "" {
		return
	}

	item := &Item{
		Key:      key,
		ItemType: stringField(fields, "itemType"),
		Title:    stringField(fields, "title"),
		Creators: creatorNames(fields["creators"]),
		Year:     extractYear(fields),
		DOI:      firstString(fields, "DOI", "doi"),
		URL:      firstString(fields, "url", "URL"),
		CiteKey:  firstString(fields, "citekey", "citationKey"),
	}
	x.ItemsByKey[key] = item

	// Attachment rows link themselves to their parent.
	if parent := firstString(fields, "parentItem", "parentItemKey"); parent != "" {
		x.AttachmentParent[key] = parent
		return
	}

	// Parent rows may carry their attachments inline, or a bare path.
	for _, attachKey := range inlineAttachmentKeys(fields["attachments"]) {
		x.AttachmentParent[attachKey] = key
	}
	if attachKey := keyFromStoragePath(stringField(fields, "path")); attachKey != "" {
		if _, exists := x.AttachmentParent[attachKey]; !exists {
			x.AttachmentParent[attachKey] = ""
		}
	}
}

// inlineAttachmentKeys extracts attachment keys from a nested
// attachments list. Entries are either "storage:KEY/..." strings or
// objects carrying path / localPath fields.
func inlineAttachmentKeys(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var keys []string
	for _, entry := range list {
		switch e := entry.(type) {
		case string:
			if key := keyFromStoragePath(e); key != "" {
				keys = append(keys, key)
			}
		case map[string]any:
			if key := keyFromStoragePath(stringField(e, "path")); key != "" {
				keys = append(keys, key)
				continue
			}
			if key := keyFromLocalPath(stringField(e, "localPath")); key != "" {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// keyFromStoragePath parses the "storage:KEY/file.pdf" form common in
// Zotero exports.
func keyFromStoragePath(path string) string {
	rest, ok := strings.CutPrefix(path, "storage:")
	if !ok {
		return ""
	}
	key, _, _ := strings.Cut(rest, "/")
	return strings.TrimSpace(key)
}

// keyFromLocalPath pulls the attachment key out of an absolute path
// like "/home/me/Zotero/storage/KEY/file.pdf".
func keyFromLocalPath(path string) string {
	if path == "" {
		return ""
	}
	parts := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	for i, part := range parts {
		if part == "storage" && i+1 < len(parts) {
			return strings.TrimSpace(parts[i+1])
		}
	}
	return ""
}

func creatorNames(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, entry := range list {
		c, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if name := stringField(c, "name"); name != "" {
			names = append(names, name)
			continue
		}
		first := stringField(c, "firstName")
		last := stringField(c, "lastName")
		full := strings.TrimSpace(strings.Join(nonEmpty(first, last), " "))
		if full != "" {
			names = append(names, full)
		}
	}
	return names
}

// extractYear reads the publication year from a date string, a CSL
// issued string, or CSL {"date-parts": [[Y,M,D]]} structures.
func extractYear(fields map[string]any) int {
	for _, name := range []string{"date", "issued"} {
		switch v := fields[name].(type) {
		case string:
			if year := yearFromString(v); year != 0 {
				return year
			}
		case map[string]any:
			if year := yearFromDateParts(v["date-parts"]); year != 0 {
				return year
			}
		}
	}
	return 0
}

func yearFromString(s string) int {
	match := yearRe.FindString(s)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

func yearFromDateParts(v any) int {
	outer, ok := v.([]any)
	if !ok || len(outer) == 0 {
		return 0
	}
	inner, ok := outer[0].([]any)
	if !ok || len(inner) == 0 {
		return 0
	}
	switch y := inner[0].(type) {
	case float64:
		return int(y)
	case string:
		return yearFromString(y)
	}
	return 0
}

func stringField(m map[string]any, name string) string {
	s, _ := m[name].(string)
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, names ...string) string {
	for _, name := range names {
		if s := stringField(m, name); s != "" {
			return s
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
