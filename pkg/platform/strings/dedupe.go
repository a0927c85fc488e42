// Package strings carries small string-slice helpers shared by config
// parsing.
package strings

import "strings"

// DedupeAndTrim trims every element, drops the empties, and keeps the first
// occurrence of each remaining value, preserving order.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
