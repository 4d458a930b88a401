package match

import (
	"encoding/json"
	"fmt"
)

const batchSystemPrompt = `You are an expert at reading captured browser network traffic.
You are given a JSON array of captured API requests and a natural-language
description of a feature. Identify the single request that implements the
described feature.

Respond with a JSON object only, no prose:
{
  "matchedIndex": <zero-based index into the array, or -1 if no request in this array matches>,
  "confidence": "high" | "medium" | "low" | "none",
  "explanationBullets": [<2-4 short bullets explaining the choice>]
}`

const arbitrationSystemPrompt = `You are an expert at reading captured browser network traffic.
Several candidate API requests were each picked as the best match for the
same feature description. Pick the single best one.

Respond with a JSON object only, no prose:
{
  "matchedIndex": <zero-based index into the candidate array>,
  "confidence": "high" | "medium" | "low" | "none",
  "explanationBullets": [<2-4 short bullets explaining the choice>]
}`

func batchUserPrompt(description string, minimal []MinimalCandidate) string {
	payload, _ := json.Marshal(minimal)
	return fmt.Sprintf("Feature description: %s\n\nCaptured requests:\n%s", description, payload)
}

// arbitrationEntry is the compact per-winner shape sent to the arbitration
// call: enough to choose between winners without re-sending full batches.
type arbitrationEntry struct {
	Method             string   `json:"method"`
	URL                string   `json:"url"`
	ExplanationBullets []string `json:"explanationBullets,omitempty"`
}

func arbitrationUserPrompt(description string, entries []arbitrationEntry) string {
	payload, _ := json.Marshal(entries)
	return fmt.Sprintf("Feature description: %s\n\nCandidates:\n%s", description, payload)
}
