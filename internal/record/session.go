package record

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Session attaches to an already-running browser over CDP and streams its
// network traffic into a Collector.
type Session struct {
	cdpURL       string
	tabURLFilter string
	collector    *Collector

	allocCtx    context.Context
	allocCancel context.CancelFunc

	tabsMu sync.RWMutex
	tabs   map[target.ID]context.Context
}

func NewSession(cdpURL, tabURLFilter string, collector *Collector) *Session {
	return &Session{
		cdpURL:       cdpURL,
		tabURLFilter: tabURLFilter,
		collector:    collector,
		tabs:         make(map[target.ID]context.Context),
	}
}

// Connect enumerates page targets and attaches to those matching the URL
// filter. At least one tab must attach.
func (s *Session) Connect(ctx context.Context) error {
	_ = ctx
	slog.Info("connecting to browser", "url", s.cdpURL)

	s.allocCtx, s.allocCancel = chromedp.NewRemoteAllocator(context.Background(), s.cdpURL)

	tempCtx, tempCancel := chromedp.NewContext(s.allocCtx)
	defer tempCancel()

	if err := chromedp.Run(tempCtx); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	targets, err := chromedp.Targets(tempCtx)
	if err != nil {
		return fmt.Errorf("failed to enumerate targets: %w", err)
	}

	attached := 0
	for _, t := range targets {
		if t.Type != "page" || !s.matchesTabURL(t.URL) {
			continue
		}
		if err := s.attachToTab(t.TargetID, t.URL); err != nil {
			slog.Error("failed to attach to tab", "target_id", t.TargetID, "url", t.URL, "error", err)
			continue
		}
		attached++
	}

	if attached == 0 {
		return fmt.Errorf("no tabs found matching RECORDER_TAB_URL_FILTER=%q", s.tabURLFilter)
	}

	slog.Info("attached to tabs", "count", attached, "tab_url_filter", s.tabURLFilter)
	return nil
}

func (s *Session) attachToTab(targetID target.ID, url string) error {
	tabCtx, tabCancel := chromedp.NewContext(s.allocCtx, chromedp.WithTargetID(targetID))

	if err := chromedp.Run(tabCtx, network.Enable(), network.SetCacheDisabled(true)); err != nil {
		tabCancel()
		return fmt.Errorf("failed to enable network domain: %w", err)
	}

	s.tabsMu.Lock()
	s.tabs[targetID] = tabCtx
	s.tabsMu.Unlock()

	slog.Info("attached to tab", "target_id", targetID, "url", truncateURL(url))
	chromedp.ListenTarget(tabCtx, s.createEventHandler(targetID))
	return nil
}

func (s *Session) createEventHandler(targetID target.ID) func(ev interface{}) {
	return func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			s.collector.OnRequestWillBeSent(e)
		case *network.EventResponseReceived:
			s.collector.OnResponseReceived(e)
		case *network.EventLoadingFinished:
			s.tabsMu.RLock()
			tabCtx, ok := s.tabs[targetID]
			s.tabsMu.RUnlock()

			var getBody func() ([]byte, error)
			if ok {
				getBody = func() ([]byte, error) {
					bodyCtx, bodyCancel := context.WithTimeout(tabCtx, 10*time.Second)
					defer bodyCancel()

					var body []byte
					err := chromedp.Run(bodyCtx, chromedp.ActionFunc(func(ctx context.Context) error {
						var err error
						body, err = network.GetResponseBody(e.RequestID).Do(ctx)
						return err
					}))
					return body, err
				}
			}
			s.collector.OnLoadingFinished(e, getBody)
		case *network.EventLoadingFailed:
			s.collector.OnLoadingFailed(e)
		}
	}
}

func (s *Session) Close() error {
	s.tabsMu.Lock()
	s.tabs = make(map[target.ID]context.Context)
	s.tabsMu.Unlock()

	if s.allocCancel != nil {
		s.allocCancel()
	}
	slog.Info("recorder session closed")
	return nil
}

// TabCount returns the number of attached tabs.
func (s *Session) TabCount() int {
	s.tabsMu.RLock()
	defer s.tabsMu.RUnlock()
	return len(s.tabs)
}

func (s *Session) matchesTabURL(url string) bool {
	if s.tabURLFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(url), strings.ToLower(s.tabURLFilter))
}

func truncateURL(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
