// Package identifier normalizes user-supplied names into safe storage
// identifiers. Table and column names are only ever taken from sanitized
// slugs or generated attribute IDs, never from raw request input.
package identifier

import "strings"

// Sanitize returns s reduced to lowercase letters, digits, and underscores.
// Spaces and dashes become underscores; every other character is dropped.
// The result may be empty; callers that need a usable identifier should
// check with Valid instead of using the raw output.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Valid reports whether s is non-empty and already in sanitized form, i.e.
// usable as a table or column name without modification.
func Valid(s string) bool {
	return s != "" && Sanitize(s) == s
}
