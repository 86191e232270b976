// Package cdpcapture populates the capture store from a running Chromium
// instance over the Chrome DevTools Protocol. It is the session collaborator
// the query engine reads from; the engine itself never touches CDP.
package cdpcapture

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/singleflight"

	"github.com/hraihanm/playwright-mcp-mod/internal/config"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
)

// Recorder attaches to browser tabs and appends one exchange per observed
// request, in request order. Responses are filled in as they arrive; bodies
// stay in the browser until a reader asks for them.
type Recorder struct {
	cfg   *config.Config
	store *capture.MemoryStore

	allocCtx    context.Context
	allocCancel context.CancelFunc

	tabs   map[target.ID]*tabContext
	tabsMu sync.RWMutex

	pending   map[network.RequestID]*capture.Exchange
	pendingMu sync.Mutex

	bodyFetch singleflight.Group
}

type tabContext struct {
	id     target.ID
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRecorder creates a recorder writing into the given store.
func NewRecorder(cfg *config.Config, store *capture.MemoryStore) *Recorder {
	return &Recorder{
		cfg:     cfg,
		store:   store,
		tabs:    make(map[target.ID]*tabContext),
		pending: make(map[network.RequestID]*capture.Exchange),
	}
}

// Connect attaches to every page target of the browser at CDP_URL whose URL
// contains TAB_URL_FILTER (all pages when the filter is empty). The allocator
// derives from ctx, so canceling it aborts a slow connect and later tears
// down every attached tab.
func (r *Recorder) Connect(ctx context.Context) error {
	slog.Info("connecting to browser", "cdp_url", r.cfg.CDPURL)

	r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(ctx, r.cfg.CDPURL)

	tempCtx, tempCancel := chromedp.NewContext(r.allocCtx)
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
		if t.Type != "page" {
			continue
		}
		if r.cfg.TabURLFilter != "" && !strings.Contains(t.URL, r.cfg.TabURLFilter) {
			continue
		}
		if err := r.attachToTab(t.TargetID); err != nil {
			slog.Error("failed to attach to tab", "target_id", t.TargetID, "url", t.URL, "error", err)
			continue
		}
		attached++
	}

	if attached == 0 {
		return fmt.Errorf("no page targets matched TAB_URL_FILTER=%q", r.cfg.TabURLFilter)
	}
	slog.Info("attached to tabs", "count", attached)
	return nil
}

func (r *Recorder) attachToTab(targetID target.ID) error {
	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx, chromedp.WithTargetID(targetID))

	if err := chromedp.Run(tabCtx, network.Enable(), network.SetCacheDisabled(true), page.Enable()); err != nil {
		tabCancel()
		return fmt.Errorf("failed to enable network domain: %w", err)
	}

	tab := &tabContext{id: targetID, ctx: tabCtx, cancel: tabCancel}
	r.tabsMu.Lock()
	r.tabs[targetID] = tab
	r.tabsMu.Unlock()

	chromedp.ListenTarget(tabCtx, r.eventHandler(tab))

	if r.cfg.ReloadOnAttach {
		reloadCtx, reloadCancel := context.WithTimeout(tabCtx, 30*time.Second)
		defer reloadCancel()
		if err := chromedp.Run(reloadCtx, chromedp.Reload()); err != nil {
			slog.Warn("failed to reload tab after attach", "target_id", targetID, "error", err)
		}
	}

	slog.Info("attached to tab", "target_id", targetID)
	return nil
}

func (r *Recorder) eventHandler(tab *tabContext) func(ev interface{}) {
	return func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			r.onRequest(e)
		case *network.EventResponseReceived:
			r.onResponse(tab, e)
		case *network.EventLoadingFailed:
			r.onLoadingFailed(e)
		}
	}
}

// onRequest appends the exchange immediately so the store's order is the
// order requests were issued, not the order responses arrived.
func (r *Recorder) onRequest(ev *network.EventRequestWillBeSent) {
	ex := &capture.Exchange{
		Method:         ev.Request.Method,
		URL:            ev.Request.URL,
		RequestHeaders: headersFromCDP(ev.Request.Headers),
		PostData:       postDataFromCDP(ev.Request),
		ResourceType:   resourceType(ev.Type),
	}
	r.store.Append(ex)

	r.pendingMu.Lock()
	r.pending[ev.RequestID] = ex
	r.pendingMu.Unlock()
}

func (r *Recorder) onResponse(tab *tabContext, ev *network.EventResponseReceived) {
	r.pendingMu.Lock()
	ex, ok := r.pending[ev.RequestID]
	if ok {
		delete(r.pending, ev.RequestID)
	}
	r.pendingMu.Unlock()
	if !ok {
		return
	}

	// ResourceType stays as observed at request time; queries may already be
	// reading the exchange, so only the response pointer is published here.
	ex.SetResponse(capture.NewResponse(
		int(ev.Response.Status),
		ev.Response.StatusText,
		headersFromCDP(ev.Response.Headers),
		r.bodyFunc(tab, ev.RequestID),
	))
}

func (r *Recorder) onLoadingFailed(ev *network.EventLoadingFailed) {
	// The exchange stays in the store without a response.
	r.pendingMu.Lock()
	delete(r.pending, ev.RequestID)
	r.pendingMu.Unlock()
}

// bodyFunc returns a lazy accessor for the response body. The body lives in
// the browser until first read; concurrent reads of the same request are
// deduplicated, and each read is bounded by the configured timeout.
func (r *Recorder) bodyFunc(tab *tabContext, requestID network.RequestID) capture.BodyFunc {
	return func(ctx context.Context) (string, error) {
		body, err, _ := r.bodyFetch.Do(string(requestID), func() (interface{}, error) {
			timeout := r.cfg.BodyTimeout
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			bodyCtx, cancel := context.WithTimeout(tab.ctx, timeout)
			defer cancel()

			var raw []byte
			err := chromedp.Run(bodyCtx, chromedp.ActionFunc(func(actionCtx context.Context) error {
				var err error
				raw, err = network.GetResponseBody(requestID).Do(actionCtx)
				return err
			}))
			if err != nil {
				return "", err
			}
			return string(raw), nil
		})
		if err != nil {
			return "", fmt.Errorf("get response body %s: %w", requestID, err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return body.(string), nil
	}
}

// Close detaches from all tabs.
func (r *Recorder) Close() {
	r.tabsMu.Lock()
	for _, tab := range r.tabs {
		tab.cancel()
	}
	r.tabs = make(map[target.ID]*tabContext)
	r.tabsMu.Unlock()

	if r.allocCancel != nil {
		r.allocCancel()
	}
	slog.Info("cdp recorder closed")
}

// headersFromCDP converts the CDP header map to an ordered pair list. CDP
// hands headers over as an unordered map, so keys are sorted for a stable,
// reproducible order.
func headersFromCDP(headers map[string]any) capture.Headers {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(capture.Headers, 0, len(names))
	for _, name := range names {
		if v, ok := headers[name].(string); ok {
			out = append(out, capture.Header{Name: name, Value: v})
		}
	}
	return out
}

func postDataFromCDP(req *network.Request) string {
	if !req.HasPostData || len(req.PostDataEntries) == 0 {
		return ""
	}
	var parts []byte
	for _, entry := range req.PostDataEntries {
		if entry.Bytes == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(entry.Bytes)
		if err != nil {
			parts = append(parts, []byte(entry.Bytes)...)
		} else {
			parts = append(parts, decoded...)
		}
	}
	return string(parts)
}

// resourceType lowers the CDP resource type label to the classifier's
// vocabulary ("image", "font", "document", ...). Empty means unknown.
func resourceType(t network.ResourceType) string {
	return strings.ToLower(string(t))
}
