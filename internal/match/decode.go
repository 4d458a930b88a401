package match

import (
	"encoding/json"
	"strings"
)

// stripCodeFence removes a markdown code fence wrapper from a model
// response, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeOutcome best-effort decodes a raw classifier response into an
// outcome. Models wrap JSON in code fences or pad it with prose often
// enough that both phases share this tolerant path; a response that still
// fails to decode degrades to "no outcome" rather than failing the run.
func decodeOutcome(raw string, v any) bool {
	text := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return true
	}
	// Salvage the first top-level JSON object from surrounding prose.
	open := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if open == -1 || last <= open {
		return false
	}
	return json.Unmarshal([]byte(text[open:last+1]), v) == nil
}
