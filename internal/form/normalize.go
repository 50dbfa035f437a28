// Package form extracts and normalizes the fields of one submitted request
// body. Clients submit the same logical field under a handful of historical
// names and stylings, so every key is folded to lowercase snake_case and
// passed through a small alias table before anything else looks at it.
package form

import (
	"regexp"
	"strings"
)

// keyAliases folds the legacy spellings of the passenger name field onto the
// canonical key.
var keyAliases = map[string]string{
	"fullname":       "full_name",
	"name":           "full_name",
	"passenger_name": "full_name",
}

var separatorRun = regexp.MustCompile(`[\s\-]+`)

// NormalizeKey trims and lowercases a field key and collapses whitespace and
// hyphen runs to a single underscore. The transform is idempotent.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return separatorRun.ReplaceAllString(key, "_")
}

// CanonicalKey normalizes a key and applies the alias table.
func CanonicalKey(key string) string {
	normalized := NormalizeKey(key)
	if alias, ok := keyAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// Normalize rewrites a raw field map onto canonical keys with trimmed
// values. When two raw keys collapse onto the same canonical key the last
// one wins, in map iteration order.
func Normalize(raw map[string]string) map[string]string {
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		fields[CanonicalKey(key)] = strings.TrimSpace(value)
	}
	return fields
}
