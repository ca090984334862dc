// jsonguard.go defends against LLM responses that wrap their JSON
// payload in prose or a markdown fence despite being asked for strict
// JSON. Grounded on tidwall/gjson+sjson, the pack's JSON-path library of
// choice (used across several other_examples manifests and present in
// the teacher's own go.mod); per §7 there is no structural fallback for
// a schema-invalid payload (ParseError is fatal for that unit) — this
// only recovers text-framing noise around otherwise-valid JSON, it
// never invents or corrects field values.
package llm

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// ExtractJSON strips a leading/trailing markdown code fence if present
// and returns the first top-level JSON object or array substring found.
// It does not repair malformed JSON — ParseJSON still fails fatally on
// anything gjson can't parse.
func ExtractJSON(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return "", xerrors.New(xerrors.ParseError, "no JSON object or array found in LLM response")
	}
	end := matchingBracket(trimmed, start)
	if end < 0 {
		return "", xerrors.New(xerrors.ParseError, "unbalanced JSON braces in LLM response")
	}
	candidate := trimmed[start : end+1]
	if !gjson.Valid(candidate) {
		return "", xerrors.New(xerrors.ParseError, "extracted JSON is not valid")
	}
	return candidate, nil
}

// matchingBracket finds the index of the bracket matching trimmed[start],
// ignoring bracket characters inside string literals.
func matchingBracket(s string, start int) int {
	open, close := s[start], byte('}')
	if open == '[' {
		close = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// skip structural characters while inside a string literal
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Get is a thin re-export of gjson.Get for stage code that needs to
// pull one field out of a parsed LLM payload without a full struct
// unmarshal (e.g. reading "decision" before deciding whether to bother
// parsing the rest).
func Get(json, path string) gjson.Result {
	return gjson.Get(json, path)
}
