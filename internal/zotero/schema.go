package zotero

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// exportSchema is a loose structural check for library exports: either
// a top-level item array or an object wrapping an "items" array. It
// deliberately does not constrain row fields, which vary wildly across
// Zotero, BetterBibTeX, and CSL export flavors.
const exportSchema = `{
  "oneOf": [
    {
      "type": "array",
      "items": {"type": "object"}
    },
    {
      "type": "object",
      "required": ["items"],
      "properties": {
        "items": {
          "type": "array",
          "items": {"type": "object"}
        }
      }
    }
  ]
}`

// ValidateExport checks raw export JSON against the export schema and
// returns a descriptive error when the document does not look like a
// library export. Callers treat this as a warning, not a hard failure.
func ValidateExport(raw []byte) error {
	schema := gojsonschema.NewStringLoader(exportSchema)
	document := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return fmt.Errorf("validate export: %w", err)
	}
	if result.Valid() {
		return nil
	}
	first := result.Errors()[0]
	return fmt.Errorf("export does not look like a Zotero/BetterBibTeX library export: %s", first)
}
