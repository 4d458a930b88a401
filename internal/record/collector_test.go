package record

import (
	"encoding/base64"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/dgnsrekt/har_scout/internal/har"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCorrelatesExchange(t *testing.T) {
	c := NewCollector(1024)

	c.OnRequestWillBeSent(&network.EventRequestWillBeSent{
		RequestID: "req-1",
		Request: &network.Request{
			Method: "GET",
			URL:    "https://api.x.com/users?page=2",
			Headers: network.Headers{
				"Accept": "application/json",
				"Host":   "api.x.com",
			},
		},
	})
	c.OnResponseReceived(&network.EventResponseReceived{
		RequestID: "req-1",
		Response: &network.Response{
			Status:     200,
			StatusText: "OK",
			MimeType:   "application/json",
			Headers:    network.Headers{"Content-Type": "application/json"},
		},
	})
	c.OnLoadingFinished(&network.EventLoadingFinished{RequestID: "req-1"}, func() ([]byte, error) {
		return []byte(`{"users":[]}`), nil
	})

	log := c.Log()

	require.Len(t, log.Entries, 1)
	entry := log.Entries[0]
	assert.Equal(t, "GET", entry.Request.Method)
	assert.Equal(t, []har.NameValue{{Name: "page", Value: "2"}}, entry.Request.QueryString)
	assert.Equal(t, 200, entry.Response.Status)
	require.NotNil(t, entry.Response.Content)
	assert.Equal(t, "application/json", entry.Response.Content.MimeType)
	assert.Equal(t, `{"users":[]}`, entry.Response.Content.Text)
}

func TestCollectorDecodesPostData(t *testing.T) {
	c := NewCollector(1024)

	c.OnRequestWillBeSent(&network.EventRequestWillBeSent{
		RequestID: "req-2",
		Request: &network.Request{
			Method:      "POST",
			URL:         "https://api.x.com/users",
			Headers:     network.Headers{"Content-Type": "application/json"},
			HasPostData: true,
			PostDataEntries: []*network.PostDataEntry{
				{Bytes: base64.StdEncoding.EncodeToString([]byte(`{"name":"ada"}`))},
			},
		},
	})
	c.OnResponseReceived(&network.EventResponseReceived{
		RequestID: "req-2",
		Response:  &network.Response{Status: 201, MimeType: "application/json"},
	})
	c.OnLoadingFinished(&network.EventLoadingFinished{RequestID: "req-2"}, nil)

	log := c.Log()

	require.Len(t, log.Entries, 1)
	require.NotNil(t, log.Entries[0].Request.PostData)
	assert.Equal(t, `{"name":"ada"}`, log.Entries[0].Request.PostData.Text)
	assert.Equal(t, "application/json", log.Entries[0].Request.PostData.MimeType)
}

func TestCollectorDropsFailedRequests(t *testing.T) {
	c := NewCollector(1024)

	c.OnRequestWillBeSent(&network.EventRequestWillBeSent{
		RequestID: "req-3",
		Request:   &network.Request{Method: "GET", URL: "https://api.x.com/flaky"},
	})
	c.OnLoadingFailed(&network.EventLoadingFailed{RequestID: "req-3"})
	c.OnLoadingFinished(&network.EventLoadingFinished{RequestID: "req-3"}, nil)

	assert.Zero(t, c.EntryCount())
}

func TestCollectorTruncatesLargeBodies(t *testing.T) {
	c := NewCollector(10)

	c.OnRequestWillBeSent(&network.EventRequestWillBeSent{
		RequestID: "req-4",
		Request:   &network.Request{Method: "GET", URL: "https://api.x.com/big"},
	})
	c.OnResponseReceived(&network.EventResponseReceived{
		RequestID: "req-4",
		Response:  &network.Response{Status: 200, MimeType: "text/plain"},
	})
	c.OnLoadingFinished(&network.EventLoadingFinished{RequestID: "req-4"}, func() ([]byte, error) {
		return []byte("0123456789abcdef"), nil
	})

	log := c.Log()

	require.Len(t, log.Entries, 1)
	content := log.Entries[0].Response.Content
	require.NotNil(t, content)
	assert.Equal(t, "0123456789", content.Text)
	assert.Equal(t, 16, content.Size)
}

func TestCollectorLogShape(t *testing.T) {
	c := NewCollector(1024)

	log := c.Log()

	assert.Equal(t, "1.2", log.Version)
	require.NotNil(t, log.Creator)
	assert.NotEmpty(t, log.Creator.Name)
}
