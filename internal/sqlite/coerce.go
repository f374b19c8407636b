package sqlite

import (
	"encoding/json"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// Record value codec: bridges the text-oriented physical representation and
// typed application values. On read the owning attribute's declared type
// drives the decode; columns without a catalog entry fall back to the
// structural sniff (leading '[' or '{' triggers a JSON decode attempt) plus
// a per-table boolean allowlist. Decoding never fails: structured-looking
// text that is not valid JSON degrades to the raw string.

// booleanColumns are fixed-table columns coerced between stored 0/1 and bool
// even when no catalog entry is available for them.
var booleanColumns = map[string]map[string]bool{
	types.SlugCompanies:  {"icp": true},
	types.SlugActivities: {"completed": true},
	types.SlugDeals:      {"sensitive": true},
}

// encodeValue prepares an application value for storage: booleans become
// 0/1, structured values (arrays, objects) are serialized to JSON text, and
// everything else passes through unchanged. Applied uniformly regardless of
// the attribute's declared type.
func encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case []any, map[string]any, []string:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	default:
		return v, nil
	}
}

// decodeValue converts a stored value back to its application form. attr is
// the owning attribute when the column has a catalog entry, nil otherwise.
func decodeValue(attr *types.Attribute, table, column string, v any) any {
	if v == nil {
		return nil
	}
	if raw, ok := v.([]byte); ok {
		v = string(raw)
	}

	declared := ""
	if attr != nil {
		declared = attr.Type
	}
	switch declared {
	case types.AttributeCheckbox:
		return toBool(v)
	case types.AttributeNumber, types.AttributeCurrency:
		return toFloat(v)
	default:
		if declared == "" && booleanColumns[table][column] {
			return toBool(v)
		}
		if s, ok := v.(string); ok && looksStructured(s) {
			var decoded any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				return decoded
			}
			// Not valid JSON after all: the raw text stands.
		}
		return v
	}
}

// looksStructured reports whether stored text resembles a serialized array
// or object.
func looksStructured(s string) bool {
	return len(s) > 0 && (s[0] == '[' || s[0] == '{')
}

func toBool(v any) any {
	switch n := v.(type) {
	case bool:
		return n
	case int64:
		return n != 0
	case float64:
		return n != 0
	default:
		return v
	}
}

func toFloat(v any) any {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return v
	}
}
