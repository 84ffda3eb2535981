package keys

import "strings"

// ContentKey produces the canonical catalog key for a content name: trimmed,
// lower-cased, spaces replaced with underscores. Content references stored on
// session rows (archetypes, gear names, target profiles) are resolved through
// this key so renames that only change casing or spacing do not break saves.
func ContentKey(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ToLower(strings.ReplaceAll(s, " ", "_"))
	return s
}
