// Package record turns CDP network events from a live browser into a
// standard HAR 1.2 capture, the input format of the scout pipeline.
package record

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/chromedp/cdproto/network"
	"github.com/dgnsrekt/har_scout/internal/har"
)

// Collector correlates request/response/body events by request ID and
// accumulates completed exchanges as HAR entries in capture order.
type Collector struct {
	maxBodyBytes int

	mu      sync.Mutex
	pending map[network.RequestID]*pendingExchange
	entries []har.Entry
}

type pendingExchange struct {
	entry   har.Entry
	started time.Time
}

func NewCollector(maxBodyBytes int) *Collector {
	return &Collector{
		maxBodyBytes: maxBodyBytes,
		pending:      make(map[network.RequestID]*pendingExchange),
	}
}

func (c *Collector) OnRequestWillBeSent(ev *network.EventRequestWillBeSent) {
	entry := har.Entry{
		StartedDateTime: time.Now().UTC().Format(time.RFC3339Nano),
		Request: har.Request{
			Method:      ev.Request.Method,
			URL:         ev.Request.URL,
			Headers:     headerPairs(ev.Request.Headers),
			QueryString: queryPairs(ev.Request.URL),
		},
	}
	if post := decodePostData(ev.Request); post != "" {
		entry.Request.PostData = &har.PostData{
			MimeType: headerValue(ev.Request.Headers, "content-type"),
			Text:     post,
		}
	}

	c.mu.Lock()
	c.pending[ev.RequestID] = &pendingExchange{entry: entry, started: time.Now()}
	c.mu.Unlock()
}

func (c *Collector) OnResponseReceived(ev *network.EventResponseReceived) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, ok := c.pending[ev.RequestID]
	if !ok {
		return
	}
	pending.entry.Response = har.Response{
		Status:     int(ev.Response.Status),
		StatusText: ev.Response.StatusText,
		Headers:    headerPairs(ev.Response.Headers),
		Content:    &har.Content{MimeType: ev.Response.MimeType},
	}
}

// OnLoadingFinished completes an exchange. getBody may be nil when the tab
// context is already gone; the entry is still recorded without a body.
func (c *Collector) OnLoadingFinished(ev *network.EventLoadingFinished, getBody func() ([]byte, error)) {
	c.mu.Lock()
	pending, ok := c.pending[ev.RequestID]
	if ok {
		delete(c.pending, ev.RequestID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	if pending.entry.Response.Content != nil && getBody != nil {
		if body, err := getBody(); err == nil && len(body) > 0 {
			kept, _ := truncateBytes(body, c.maxBodyBytes)
			pending.entry.Response.Content.Size = len(body)
			if utf8.Valid(kept) {
				pending.entry.Response.Content.Text = string(kept)
			}
		}
	}
	pending.entry.Time = float64(time.Since(pending.started).Milliseconds())

	c.mu.Lock()
	c.entries = append(c.entries, pending.entry)
	c.mu.Unlock()
}

func (c *Collector) OnLoadingFailed(ev *network.EventLoadingFailed) {
	c.mu.Lock()
	delete(c.pending, ev.RequestID)
	c.mu.Unlock()
}

// Log snapshots the completed entries as a HAR log.
func (c *Collector) Log() har.Log {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]har.Entry, len(c.entries))
	copy(entries, c.entries)
	return har.Log{
		Version: "1.2",
		Creator: &har.Creator{Name: "har_scout recorder", Version: "1.0.0"},
		Entries: entries,
	}
}

// EntryCount returns the number of completed exchanges so far.
func (c *Collector) EntryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// WriteFile writes the capture as a HAR document.
func (c *Collector) WriteFile(path string) error {
	data, err := json.MarshalIndent(har.File{Log: c.Log()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// headerPairs converts a CDP header map into sorted HAR pairs. Sorting
// keeps recorder output stable across runs.
func headerPairs(headers network.Headers) []har.NameValue {
	out := make([]har.NameValue, 0, len(headers))
	for name, value := range headers {
		if s, ok := value.(string); ok {
			out = append(out, har.NameValue{Name: name, Value: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func headerValue(headers network.Headers, name string) string {
	for _, pair := range headerPairs(headers) {
		if strings.EqualFold(pair.Name, name) {
			return pair.Value
		}
	}
	return ""
}

func queryPairs(rawURL string) []har.NameValue {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return nil
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil
	}
	out := make([]har.NameValue, 0, len(values))
	for name, vals := range values {
		for _, v := range vals {
			out = append(out, har.NameValue{Name: name, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func decodePostData(req *network.Request) string {
	if !req.HasPostData || len(req.PostDataEntries) == 0 {
		return ""
	}
	var decoded []byte
	for _, entry := range req.PostDataEntries {
		if entry.Bytes == "" {
			continue
		}
		part, err := base64.StdEncoding.DecodeString(entry.Bytes)
		if err != nil {
			decoded = append(decoded, []byte(entry.Bytes)...)
			continue
		}
		decoded = append(decoded, part...)
	}
	return string(decoded)
}

func truncateBytes(in []byte, maxBytes int) ([]byte, bool) {
	if maxBytes <= 0 || len(in) <= maxBytes {
		return in, false
	}
	return in[:maxBytes], true
}
