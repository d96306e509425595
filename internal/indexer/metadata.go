package indexer

import (
	"fmt"
	"strings"
)

// sanitizeMetadata flattens a metadata record into values the store can
// hold as JSON scalars: nils and empty values are dropped, string lists
// are joined with "; ", and anything structured is stringified.
func sanitizeMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for key, value := range meta {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			out[key] = v
		case []string:
			if len(v) == 0 {
				continue
			}
			out[key] = strings.Join(v, "; ")
		case []any:
			if len(v) == 0 {
				continue
			}
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			out[key] = strings.Join(parts, "; ")
		case int, int64, float64, bool:
			out[key] = v
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
