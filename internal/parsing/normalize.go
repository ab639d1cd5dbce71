package parsing

import "strings"

// DedupeFold removes blank entries and case-insensitive duplicates, keeping the first
// occurrence of each entry and its original spelling.
func DedupeFold(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// SubtractFold returns the distinct entries of items that do not appear in exclude,
// comparing case-insensitively.
func SubtractFold(items, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	out := make([]string, 0, len(items))
	for _, item := range DedupeFold(items) {
		if _, ok := excluded[strings.ToLower(item)]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

// normalizeKey lowers a JSON key and drops separators so fullName, full_name and
// FullName compare equal.
func normalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
