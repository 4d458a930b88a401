// Package curl renders a candidate request as an equivalent curl command.
// Rendering is pure and deterministic; it never consults the classifier,
// so command fidelity is independent of model variance.
package curl

import (
	"net/http"
	"strings"

	"github.com/dgnsrekt/har_scout/internal/har"
)

// Command renders a single shell command reproducing the request: URL
// (query string included), an explicit method for non-GET requests, one -H
// flag per retained header, and --data-raw when post-data text is present.
func Command(c har.CandidateRequest) string {
	var b strings.Builder
	b.WriteString("curl ")
	b.WriteString(quote(c.URL))

	if c.Method != "" && c.Method != http.MethodGet {
		b.WriteString(" \\\n  -X ")
		b.WriteString(quote(c.Method))
	}

	for _, h := range c.Headers {
		b.WriteString(" \\\n  -H ")
		b.WriteString(quote(h.Name + ": " + h.Value))
	}

	if c.PostData != nil && c.PostData.Text != "" {
		b.WriteString(" \\\n  --data-raw ")
		b.WriteString(quote(c.PostData.Text))
	}

	return b.String()
}

// quote single-quotes a shell argument, escaping embedded single quotes
// with the standard '\'' dance.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
