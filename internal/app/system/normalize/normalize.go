// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Username trims surrounding whitespace but preserves case for display.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// UsernameCI returns the folded form used for case-insensitive lookups and
// the uniqueness check: trimmed and lower-cased.
func UsernameCI(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
