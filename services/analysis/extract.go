package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	bareObjectRe  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// extractJSON unmarshals a JSON object from model output. Models routinely
// wrap JSON in markdown code fences or surround it with prose, so the fenced
// block is tried first, then the outermost brace-delimited object, then the
// raw text.
func extractJSON(responseText string, v interface{}) error {
	if m := fencedBlockRe.FindStringSubmatch(responseText); m != nil {
		return json.Unmarshal([]byte(strings.TrimSpace(m[1])), v)
	}
	if m := bareObjectRe.FindString(responseText); m != "" {
		return json.Unmarshal([]byte(strings.TrimSpace(m)), v)
	}
	return json.Unmarshal([]byte(responseText), v)
}
