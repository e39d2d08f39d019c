package domain

import "strings"

// SplitAggregate parses a comma-joined aggregate field.
// Tokens are trimmed and empty tokens dropped.
func SplitAggregate(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinAggregate serializes tokens as a comma-joined aggregate field.
func JoinAggregate(tokens []string) string {
	return strings.Join(UnionTokens(tokens), ",")
}

// UnionTokens concatenates the lists, keeping the first occurrence of
// every trimmed, non-empty token.
func UnionTokens(lists ...[]string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, l := range lists {
		for _, t := range l {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
