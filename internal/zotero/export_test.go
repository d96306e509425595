package zotero

import (
	"os"
	"path/filepath"
	"testing"
)

func parse(t *testing.T, payload string) *ExportIndex {
	t.Helper()
	index, err := ParseExport([]byte(payload))
	if err != nil {
		t.Fatalf("ParseExport: %v", err)
	}
	return index
}

func TestLoadExportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	payload := `[{"key": "P1", "data": {"itemType": "journalArticle", "title": "My Paper"}}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	index, err := LoadExport(path)
	if err != nil {
		t.Fatalf("LoadExport: %v", err)
	}
	if item := index.ItemsByKey["P1"]; item == nil || item.Title != "My Paper" {
		t.Fatalf("unexpected parsed item: %+v", item)
	}

	if _, err := LoadExport(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing export file")
	}
}

func TestParseExportAPIStyleDataWrapper(t *testing.T) {
	index := parse(t, `[
		{
			"key": "PARENT1",
			"data": {
				"itemType": "journalArticle",
				"title": "My Paper",
				"creators": [{"firstName": "Ada", "lastName": "Lovelace"}],
				"date": "2020-01-02",
				"DOI": "10.1234/abc",
				"url": "https://example.com"
			}
		},
		{
			"key": "ATTACH1",
			"data": {
				"itemType": "attachment",
				"parentItem": "PARENT1",
				"path": "storage:ATTACH1/paper.pdf"
			}
		}
	]`)

	meta := index.MetadataForAttachment("ATTACH1")
	if meta["item_key"] != "PARENT1" {
		t.Fatalf("expected item_key PARENT1, got %v", meta["item_key"])
	}
	if meta["title"] != "My Paper" {
		t.Fatalf("expected title, got %v", meta["title"])
	}
	if meta["year"] != 2020 {
		t.Fatalf("expected year 2020, got %v", meta["year"])
	}
	if meta["doi"] != "10.1234/abc" {
		t.Fatalf("expected doi, got %v", meta["doi"])
	}
	if meta["url"] != "https://example.com" {
		t.Fatalf("expected url, got %v", meta["url"])
	}
	creators, ok := meta["creators"].([]string)
	if !ok || len(creators) != 1 || creators[0] != "Ada Lovelace" {
		t.Fatalf("expected creators [Ada Lovelace], got %v", meta["creators"])
	}
}

func TestParseExportBetterBibTeXNestedAttachments(t *testing.T) {
	index := parse(t, `{
		"items": [
			{
				"itemKey": "PARENT2",
				"itemType": "journalArticle",
				"title": "Another Paper",
				"creators": [{"name": "Alan Turing"}],
				"date": "2019",
				"citationKey": "Turing2019",
				"attachments": [{"path": "storage:ATTACH2/file.pdf"}]
			}
		]
	}`)

	meta := index.MetadataForAttachment("ATTACH2")
	if meta["item_key"] != "PARENT2" {
		t.Fatalf("expected item_key PARENT2, got %v", meta["item_key"])
	}
	if meta["title"] != "Another Paper" {
		t.Fatalf("expected title, got %v", meta["title"])
	}
	if meta["year"] != 2019 {
		t.Fatalf("expected year 2019, got %v", meta["year"])
	}
	if meta["citekey"] != "Turing2019" {
		t.Fatalf("expected citekey Turing2019, got %v", meta["citekey"])
	}
}

func TestParseExportStringAndLocalPathAttachments(t *testing.T) {
	index := parse(t, `[
		{
			"itemKey": "PARENT4",
			"itemType": "report",
			"title": "String Attachments",
			"date": "2021",
			"attachments": [
				"storage:ABCD1234/file.pdf",
				{"localPath": "/home/me/Zotero/storage/EFGH5678/other.pdf"}
			]
		}
	]`)

	meta := index.MetadataForAttachment("ABCD1234")
	if meta["title"] != "String Attachments" || meta["year"] != 2021 {
		t.Fatalf("unexpected metadata for string attachment: %v", meta)
	}
	meta = index.MetadataForAttachment("EFGH5678")
	if meta["title"] != "String Attachments" {
		t.Fatalf("unexpected metadata for localPath attachment: %v", meta)
	}
}

func TestParseExportCSLIssuedDateParts(t *testing.T) {
	index := parse(t, `[
		{
			"key": "PARENT3",
			"data": {
				"itemType": "journalArticle",
				"title": "CSL Paper",
				"issued": {"date-parts": [[2018, 5, 1]]},
				"attachments": [{"path": "storage:ATTACH3/file.pdf"}]
			}
		}
	]`)

	meta := index.MetadataForAttachment("ATTACH3")
	if meta["year"] != 2018 {
		t.Fatalf("expected year 2018, got %v", meta["year"])
	}
}

func TestParseExportUnsupportedShape(t *testing.T) {
	if _, err := ParseExport([]byte(`{"collections": []}`)); err == nil {
		t.Fatalf("expected error for unsupported export shape")
	}
	if _, err := ParseExport([]byte(`"just a string"`)); err == nil {
		t.Fatalf("expected error for scalar export")
	}
}

func TestMetadataForUnknownAttachment(t *testing.T) {
	index := parse(t, `[]`)
	meta := index.MetadataForAttachment("NOPE")
	if meta["attachment_key"] != "NOPE" {
		t.Fatalf("expected attachment_key passthrough, got %v", meta)
	}
	if _, ok := meta["title"]; ok {
		t.Fatalf("expected no title for unknown attachment")
	}
}

func TestValidateExport(t *testing.T) {
	if err := ValidateExport([]byte(`[{"key": "A"}]`)); err != nil {
		t.Fatalf("expected array export to validate, got %v", err)
	}
	if err := ValidateExport([]byte(`{"items": []}`)); err != nil {
		t.Fatalf("expected items wrapper to validate, got %v", err)
	}
	if err := ValidateExport([]byte(`{"collections": []}`)); err == nil {
		t.Fatalf("expected validation error for non-export document")
	}
	if err := ValidateExport([]byte(`42`)); err == nil {
		t.Fatalf("expected validation error for scalar document")
	}
}
