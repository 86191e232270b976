package netsearch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hraihanm/playwright-mcp-mod/internal/bodygate"
	"github.com/hraihanm/playwright-mcp-mod/internal/cache"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
	"github.com/hraihanm/playwright-mcp-mod/pkg/textmatch"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	bodies, err := cache.NewBodyCache(64)
	require.NoError(t, err)
	return New(bodygate.New(bodies))
}

func staticBody(s string) capture.BodyFunc {
	return func(context.Context) (string, error) { return s, nil }
}

func jsonResponse(body string) *capture.Response {
	headers := capture.Headers{}.Set("Content-Type", "application/json")
	return capture.NewResponse(200, "OK", headers, staticBody(body))
}

func appendCompleted(store *capture.MemoryStore, ex *capture.Exchange, resp *capture.Response) {
	ex.SetResponse(resp)
	store.Append(ex)
}

// shopStore builds the canonical three-exchange fixture: an image, a useful
// API call, and a tracking script.
func shopStore() *capture.MemoryStore {
	store := capture.NewMemoryStore()
	appendCompleted(store, &capture.Exchange{
		Method:       "GET",
		URL:          "https://cdn.shop.com/a.png",
		ResourceType: "image",
	}, capture.NewResponse(200, "OK",
		capture.Headers{}.Set("Content-Type", "image/png"), staticBody("\x89PNG")))
	appendCompleted(store, &capture.Exchange{
		Method:         "GET",
		URL:            "https://api.shop.com/api/items?page=1",
		RequestHeaders: capture.Headers{}.Set("Accept", "application/json"),
	}, jsonResponse(`{"items":["Soap"]}`))
	appendCompleted(store, &capture.Exchange{
		Method: "GET",
		URL:    "https://googletagmanager.com/gtag.js",
	}, capture.NewResponse(200, "OK", nil, staticBody("window.dataLayer=[]")))
	return store
}

func TestSearchFindsResponseBodyMatch(t *testing.T) {
	resp, err := newEngine(t).Search(context.Background(), shopStore(), Request{Query: "Soap"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	result := resp.Results[0]
	assert.Equal(t, "https://api.shop.com/api/items?page=1", result.URL)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, "application/json", result.ContentType)

	require.Len(t, result.Fields, 1)
	assert.Equal(t, FieldResponseBody, result.Fields[0].Field)
	assert.Equal(t, 1, result.Fields[0].TotalMatches)
	require.Len(t, result.Fields[0].Snippets, 1)
	assert.Contains(t, result.Fields[0].Snippets[0], ">>>Soap<<<")
}

func TestSearchSkipsFilteredExchanges(t *testing.T) {
	// "shop" appears in the image URL too, but the image is noise.
	resp, err := newEngine(t).Search(context.Background(), shopStore(), Request{Query: "shop"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://api.shop.com/api/items?page=1", resp.Results[0].URL)
	assert.Equal(t, 1, resp.Considered, "only the API exchange survives the noise filter")
}

func TestSearchIncludeFilteredDomains(t *testing.T) {
	resp, err := newEngine(t).Search(context.Background(), shopStore(), Request{
		Query:                  "gtag",
		IncludeFilteredDomains: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://googletagmanager.com/gtag.js", resp.Results[0].URL)
	assert.Equal(t, 3, resp.Considered)
}

func TestSearchInvalidPatternAbortsWholeOperation(t *testing.T) {
	_, err := newEngine(t).Search(context.Background(), shopStore(), Request{
		Query:   "[unclosed",
		IsRegex: true,
	})
	require.Error(t, err)

	var perr *textmatch.InvalidPatternError
	assert.ErrorAs(t, err, &perr)
}

func TestSearchMaxResultsShortCircuits(t *testing.T) {
	store := capture.NewMemoryStore()
	scanned := 0
	for i := 0; i < 5; i++ {
		headers := capture.Headers{}.Set("Content-Type", "application/json")
		appendCompleted(store, &capture.Exchange{
			Method: "GET",
			URL:    fmt.Sprintf("https://api.shop.com/items/%d", i),
		}, capture.NewResponse(200, "OK", headers, func(context.Context) (string, error) {
			scanned++
			return `{"name":"Soap"}`, nil
		}))
	}

	resp, err := newEngine(t).Search(context.Background(), store, Request{Query: "Soap", MaxResults: 1})
	require.NoError(t, err)

	assert.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Considered, "scan must stop at the cap, not truncate afterwards")
	assert.Equal(t, 1, scanned, "later exchanges must never be field-searched")
}

func TestSearchBodyReadFailureIsolatedPerField(t *testing.T) {
	store := capture.NewMemoryStore()
	headers := capture.Headers{}.Set("Content-Type", "application/json")
	appendCompleted(store, &capture.Exchange{
		Method:   "POST",
		URL:      "https://api.shop.com/orders?sku=soap",
		PostData: `{"sku":"soap"}`,
	}, capture.NewResponse(200, "OK", headers, func(context.Context) (string, error) {
		return "", errors.New("body evicted")
	}))
	appendCompleted(store, &capture.Exchange{
		Method: "GET",
		URL:    "https://api.shop.com/catalog",
	}, jsonResponse(`{"q":"soap"}`))

	resp, err := newEngine(t).Search(context.Background(), store, Request{Query: "soap"})
	require.NoError(t, err, "one unreadable body must not abort the search")
	require.Len(t, resp.Results, 2)

	// First exchange still matched on url and requestBody.
	fields := resp.Results[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, FieldURL, fields[0].Field)
	assert.Equal(t, FieldRequestBody, fields[1].Field)
}

func TestSearchFieldOrderIsStable(t *testing.T) {
	store := capture.NewMemoryStore()
	headers := capture.Headers{}.Set("X-Token", "soap").Set("Content-Type", "application/json")
	appendCompleted(store, &capture.Exchange{
		Method:         "POST",
		URL:            "https://api.shop.com/soap",
		RequestHeaders: capture.Headers{}.Set("X-Query", "soap"),
		PostData:       "soap",
	}, capture.NewResponse(200, "OK", headers, staticBody("soap")))

	req := Request{Query: "soap", Fields: []string{
		FieldResponseBody, FieldRequestBody, FieldURL, FieldResponseHeaders, FieldRequestHeaders,
	}}
	resp, err := newEngine(t).Search(context.Background(), store, req)
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	var got []string
	for _, f := range resp.Results[0].Fields {
		got = append(got, f.Field)
	}
	// Declared order wins over request order.
	assert.Equal(t, []string{FieldURL, FieldRequestHeaders, FieldRequestBody, FieldResponseHeaders, FieldResponseBody}, got)
}

func TestSearchDefaultFieldsExcludeHeaders(t *testing.T) {
	store := capture.NewMemoryStore()
	appendCompleted(store, &capture.Exchange{
		Method:         "GET",
		URL:            "https://api.shop.com/items",
		RequestHeaders: capture.Headers{}.Set("X-Match", "needle"),
	}, jsonResponse(`{}`))

	resp, err := newEngine(t).Search(context.Background(), store, Request{Query: "needle"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results, "header fields are not searched by default")
}

func TestSearchExchangeWithoutResponse(t *testing.T) {
	store := capture.NewMemoryStore()
	store.Append(&capture.Exchange{Method: "GET", URL: "https://api.shop.com/pending-soap"})

	resp, err := newEngine(t).Search(context.Background(), store, Request{Query: "soap"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 0, resp.Results[0].Status)
	assert.Equal(t, FieldURL, resp.Results[0].Fields[0].Field)
}

// The recorder completes responses on the browser event goroutine while tool
// handlers scan the store. Run with -race: every response field read during a
// scan must go through the atomic publication in capture.Exchange.
func TestSearchWhileResponsesStillArriving(t *testing.T) {
	store := capture.NewMemoryStore()
	exchanges := make([]*capture.Exchange, 0, 64)
	for i := 0; i < 64; i++ {
		ex := &capture.Exchange{
			Method: "GET",
			URL:    fmt.Sprintf("https://api.shop.com/items/%d?q=soap", i),
		}
		store.Append(ex)
		exchanges = append(exchanges, ex)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		headers := capture.Headers{}.Set("Content-Type", "application/json")
		for _, ex := range exchanges {
			ex.SetResponse(capture.NewResponse(200, "OK", headers, staticBody(`{"name":"soap"}`)))
		}
	}()

	engine := newEngine(t)
	for i := 0; i < 20; i++ {
		resp, err := engine.Search(context.Background(), store, Request{
			Query:      "soap",
			Fields:     []string{FieldURL, FieldResponseHeaders, FieldResponseBody},
			MaxResults: 100,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Results, "url field matches even before the response arrives")
	}
	<-done

	resp, err := engine.Search(context.Background(), store, Request{Query: "soap", MaxResults: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 64)
}
