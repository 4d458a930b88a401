package match

import "fmt"

const (
	CodeValidation        = "VALIDATION"
	CodeOracleUnavailable = "ORACLE_UNAVAILABLE"
	CodeOracleCall        = "ORACLE_CALL_FAILED"
)

// CodedError is a typed error used for stable API mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

func newError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

const (
	// DefaultPayloadBudget caps the serialized size of a minimized batch
	// embedded in one classification prompt, in JSON characters.
	DefaultPayloadBudget = 80000

	// DefaultPostDataLimit caps post-data text carried into a minimized
	// candidate, in characters.
	DefaultPostDataLimit = 2000

	// noMatchIndex is the sentinel the classifier returns when a batch
	// contains no matching request. It is never clamped.
	noMatchIndex = -1
)

// Confidence tiers reported by the classifier.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// MinimalCandidate is the token-frugal projection of a candidate used in
// classifier prompts. It exists only as a positional mirror of the
// candidate list; an index into one is valid into the other.
type MinimalCandidate struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers"`
	PostData *MinimalPostData  `json:"postData,omitempty"`
}

// MinimalPostData is a request body reduced to MIME type and (possibly
// truncated) text.
type MinimalPostData struct {
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// Batch is a contiguous [Start, End) slice of the candidate list paired
// with its minimized mirror.
type Batch struct {
	Start   int
	End     int
	Minimal []MinimalCandidate
}

// Size returns the number of candidates in the batch.
func (b Batch) Size() int { return b.End - b.Start }

// outcome is the structured object the classifier is instructed to return.
// matchedIndex -1 means "no match in this batch".
type outcome struct {
	MatchedIndex       *int     `json:"matchedIndex"`
	Confidence         string   `json:"confidence,omitempty"`
	ExplanationBullets []string `json:"explanationBullets,omitempty"`
}

// Result is the final outcome of a matching run. Curl is empty when
// nothing matched; MatchedIndex is a global index into the candidate list
// the caller supplied.
type Result struct {
	Curl               string   `json:"curl"`
	MatchedIndex       *int     `json:"matchedIndex,omitempty"`
	Confidence         string   `json:"confidence,omitempty"`
	ExplanationBullets []string `json:"explanationBullets,omitempty"`
}
