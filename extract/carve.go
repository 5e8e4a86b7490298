// Package extract derives the canonical user record from a raw employee
// record, first by carving structured output from model-generated prose and,
// failing that, by a deterministic rule-based fallback.
package extract

import (
	"fmt"
	"regexp"

	json "github.com/goccy/go-json"
)

// ErrNoJSON is returned when generated text contains no parseable JSON
// object. It marks a soft outcome: the caller falls back to rule-based
// extraction rather than failing the run.
var ErrNoJSON = fmt.Errorf("no JSON object in generated text")

// trailingComma matches a comma immediately preceding a closing brace or
// bracket. Models regularly emit these and they are the most common reason a
// carved object fails to parse.
var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// CarveJSON locates a JSON object embedded anywhere in free-form text and
// parses it. It scans balanced brace-delimited candidates left to right,
// normalizes trailing commas, and returns the first candidate that parses.
// Generation output is unreliable prose, so no well-formedness is assumed.
func CarveJSON(text string) (map[string]any, error) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		end, ok := matchBrace(text, start)
		if !ok {
			// No balanced close for this brace; later braces are nested
			// inside the same unterminated candidate.
			break
		}
		candidate := trailingComma.ReplaceAllString(text[start:end+1], "$1")

		var fields map[string]any
		if err := json.Unmarshal([]byte(candidate), &fields); err == nil {
			return fields, nil
		}
		// Malformed candidate; resume scanning after its opening brace.
	}
	return nil, ErrNoJSON
}

// matchBrace returns the index of the brace closing the one at start,
// ignoring braces inside string literals.
func matchBrace(text string, start int) (int, bool) {
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
