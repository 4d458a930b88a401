package match

import "encoding/json"

// PlanBatches partitions the minimized list into contiguous batches whose
// serialized JSON stays within budget. Greedy first-fit: the window grows
// one candidate at a time and closes at the largest size that still fits.
// A candidate that alone exceeds the budget is emitted as a singleton
// batch; no candidate is ever dropped.
func PlanBatches(minimal []MinimalCandidate, budget int) []Batch {
	var batches []Batch

	start := 0
	for start < len(minimal) {
		end := start + 1
		for end < len(minimal) {
			if serializedLen(minimal[start:end+1]) > budget {
				break
			}
			end++
		}
		batches = append(batches, Batch{Start: start, End: end, Minimal: minimal[start:end]})
		start = end
	}

	return batches
}

func serializedLen(window []MinimalCandidate) int {
	b, err := json.Marshal(window)
	if err != nil {
		return 0
	}
	return len(b)
}
