package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// SplitList turns "A; B; C" or newline-separated bullet text into a clean
// string slice, deduplicated case-insensitively.
func SplitList(s string) []string {
	f := func(r rune) bool { return r == ';' || r == '\n' || r == '•' }
	seen := map[string]bool{}
	var out []string
	for _, p := range strings.FieldsFunc(s, f) {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
