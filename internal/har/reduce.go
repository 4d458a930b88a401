package har

import "strings"

// HTTP/2 pseudo-headers leak into browser exports and are not sendable
// headers; they are always stripped from candidates.
var pseudoHeaders = map[string]struct{}{
	":method":    {},
	":path":      {},
	":scheme":    {},
	":authority": {},
	":status":    {},
}

// Reduce projects a HAR log into the deduplicated candidate list the
// matching pipeline operates on. Entries with an HTML response are dropped
// (page loads, not API calls), pseudo-headers are stripped, and duplicate
// (method, URL) captures collapse to their first occurrence. Capture order
// is preserved; classifier indices are positional.
func Reduce(log Log) []CandidateRequest {
	seen := make(map[string]struct{}, len(log.Entries))
	candidates := make([]CandidateRequest, 0, len(log.Entries))

	for _, entry := range log.Entries {
		if isHTMLResponse(entry.Response) {
			continue
		}

		key := entry.Request.Method + " " + entry.Request.URL
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		candidates = append(candidates, projectRequest(entry))
	}

	return candidates
}

func projectRequest(entry Entry) CandidateRequest {
	c := CandidateRequest{
		Method:  entry.Request.Method,
		URL:     entry.Request.URL,
		Headers: stripPseudoHeaders(entry.Request.Headers),
		Status:  entry.Response.Status,
	}
	if len(entry.Request.QueryString) > 0 {
		c.QueryString = entry.Request.QueryString
	}
	if entry.Request.PostData != nil {
		pd := *entry.Request.PostData
		c.PostData = &pd
	}
	return c
}

func stripPseudoHeaders(headers []NameValue) []NameValue {
	out := make([]NameValue, 0, len(headers))
	for _, h := range headers {
		if _, ok := pseudoHeaders[strings.ToLower(h.Name)]; ok {
			continue
		}
		out = append(out, h)
	}
	return out
}

// isHTMLResponse prefers the response content MIME type and falls back to
// the content-type response header. Entries with neither are retained.
func isHTMLResponse(resp Response) bool {
	if resp.Content != nil && resp.Content.MimeType != "" {
		return isHTMLMime(resp.Content.MimeType)
	}
	for _, h := range resp.Headers {
		if strings.EqualFold(h.Name, "content-type") {
			return isHTMLMime(h.Value)
		}
	}
	return false
}

func isHTMLMime(mime string) bool {
	mime, _, _ = strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(mime)) == "text/html"
}
