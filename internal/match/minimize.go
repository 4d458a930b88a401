package match

import (
	"strings"

	"github.com/dgnsrekt/har_scout/internal/har"
)

// Headers that carry no signal for matching a request to a feature
// description: content negotiation, caching, client hints and fetch
// metadata. content-length is recomputed by any client anyway.
var noiseHeaders = map[string]struct{}{
	"accept-encoding":    {},
	"accept-language":    {},
	"cache-control":      {},
	"pragma":             {},
	"content-length":     {},
	"sec-ch-ua":          {},
	"sec-ch-ua-mobile":   {},
	"sec-ch-ua-platform": {},
	"sec-fetch-dest":     {},
	"sec-fetch-mode":     {},
	"sec-fetch-site":     {},
	"sec-fetch-user":     {},
}

// Minimize projects a candidate into the form embedded in classifier
// prompts. The query string is dropped (the URL already encodes it), noise
// headers are removed, and post-data text longer than limit is truncated
// with a trailing ellipsis marker.
func Minimize(c har.CandidateRequest, limit int) MinimalCandidate {
	m := MinimalCandidate{
		Method:  c.Method,
		URL:     c.URL,
		Headers: make(map[string]string, len(c.Headers)),
	}

	for _, h := range c.Headers {
		if _, noisy := noiseHeaders[strings.ToLower(h.Name)]; noisy {
			continue
		}
		m.Headers[h.Name] = h.Value
	}

	if c.PostData != nil && c.PostData.Text != "" {
		text := c.PostData.Text
		if len(text) > limit {
			text = text[:limit] + "..."
		}
		m.PostData = &MinimalPostData{MimeType: c.PostData.MimeType, Text: text}
	}

	return m
}

// MinimizeAll minimizes a candidate list in place-order, preserving the
// positional index contract between the two lists.
func MinimizeAll(candidates []har.CandidateRequest, limit int) []MinimalCandidate {
	out := make([]MinimalCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = Minimize(c, limit)
	}
	return out
}
