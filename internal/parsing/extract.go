// Package parsing turns free-text model replies into typed résumé records.
package parsing

import (
	"encoding/json"
	"strings"
)

// maxCandidates bounds the start positions tried, keeping the scan linear in the reply length
const maxCandidates = 32

// ExtractFirstJSONObject returns the first balanced {...} span in text that is valid JSON.
// String literals and escapes are tracked so braces inside values do not end the span.
// Prose and code fences around the object are ignored, and sibling objects are never
// merged: the first valid one wins. At most maxCandidates opening braces are tried.
func ExtractFirstJSONObject(text string) (string, bool) {
	for offset, tried := 0, 0; offset < len(text) && tried < maxCandidates; tried++ {
		rel := strings.IndexByte(text[offset:], '{')
		if rel < 0 {
			return "", false
		}
		start := offset + rel
		if end, ok := balancedEnd(text, start); ok {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		offset = start + 1
	}
	return "", false
}

// balancedEnd returns the index of the brace closing the object opened at start
func balancedEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
