package har

// File is the top-level shape of a browser-exported HAR document.
type File struct {
	Log Log `json:"log"`
}

// Log holds the ordered capture entries from a HAR export.
type Log struct {
	Version string   `json:"version,omitempty"`
	Creator *Creator `json:"creator,omitempty"`
	// Entries is schema-optional so that a structurally missing array
	// reaches the reducer's own validation instead of generic schema
	// rejection.
	Entries []Entry `json:"entries,omitempty"`
}

// Creator identifies the tool that produced the capture.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Entry represents one captured request/response exchange.
type Entry struct {
	StartedDateTime string   `json:"startedDateTime,omitempty"`
	Time            float64  `json:"time,omitempty"`
	Request         Request  `json:"request"`
	Response        Response `json:"response"`
}

// Request is the request half of a HAR entry.
type Request struct {
	Method      string       `json:"method"`
	URL         string       `json:"url"`
	HTTPVersion string       `json:"httpVersion,omitempty"`
	Headers     []NameValue  `json:"headers"`
	QueryString []NameValue  `json:"queryString,omitempty"`
	PostData    *PostData    `json:"postData,omitempty"`
}

// Response is the response half of a HAR entry.
type Response struct {
	Status     int         `json:"status"`
	StatusText string      `json:"statusText,omitempty"`
	Headers    []NameValue `json:"headers"`
	Content    *Content    `json:"content,omitempty"`
}

// NameValue is the HAR pair shape used for headers, query parameters and
// post parameters.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData carries a request body as exported by the browser.
type PostData struct {
	MimeType string      `json:"mimeType,omitempty"`
	Text     string      `json:"text,omitempty"`
	Params   []NameValue `json:"params,omitempty"`
}

// Content carries a response body and its MIME type.
type Content struct {
	Size     int    `json:"size,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// CandidateRequest is the API-relevant projection of a HAR request retained
// by the reducer: pseudo-headers stripped, deduplicated by (method, URL).
// Status is the originating response status, carried for listing.
type CandidateRequest struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	Headers     []NameValue `json:"headers"`
	QueryString []NameValue `json:"queryString,omitempty"`
	PostData    *PostData   `json:"postData,omitempty"`
	Status      int         `json:"status,omitempty"`
}
