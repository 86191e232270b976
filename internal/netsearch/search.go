// Package netsearch scans the capture store and extracts context snippets
// from every requested field of every qualifying exchange.
package netsearch

import (
	"context"

	"github.com/hraihanm/playwright-mcp-mod/internal/bodygate"
	"github.com/hraihanm/playwright-mcp-mod/internal/classify"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
	"github.com/hraihanm/playwright-mcp-mod/pkg/textmatch"
)

// Searchable field names. Field iteration always follows this declared
// order so output is reproducible run to run.
const (
	FieldURL             = "url"
	FieldRequestHeaders  = "requestHeaders"
	FieldRequestBody     = "requestBody"
	FieldResponseHeaders = "responseHeaders"
	FieldResponseBody    = "responseBody"
)

// fieldOrder is the fixed scan order within one exchange.
var fieldOrder = []string{
	FieldURL,
	FieldRequestHeaders,
	FieldRequestBody,
	FieldResponseHeaders,
	FieldResponseBody,
}

// DefaultFields are searched when the caller names none.
var DefaultFields = []string{FieldURL, FieldRequestBody, FieldResponseBody}

// Request holds one search invocation's parameters. Zero values fall back
// to the defaults documented on each field.
type Request struct {
	Query                  string
	IsRegex                bool
	Fields                 []string // default: DefaultFields
	ContextChars           int      // default 120
	MaxResults             int      // default 20
	MaxMatchesPerField     int      // default 3
	IncludeFilteredDomains bool
}

// FieldMatch summarizes the matches found in one field of one exchange.
type FieldMatch struct {
	Field        string   `json:"field"`
	TextLength   int      `json:"textLength"`
	TotalMatches int      `json:"totalMatches"`
	Snippets     []string `json:"snippets"`
}

// Result aggregates the matching fields of one exchange.
type Result struct {
	Seq          int64        `json:"seq"`
	Method       string       `json:"method"`
	URL          string       `json:"url"`
	Status       int          `json:"status,omitempty"`
	StatusText   string       `json:"statusText,omitempty"`
	ResourceType string       `json:"resourceType,omitempty"`
	ContentType  string       `json:"contentType,omitempty"`
	Fields       []FieldMatch `json:"fields"`
}

// Response is the outcome of one search: matching exchanges in capture
// order, plus how many exchanges were actually scanned. Considered stops
// growing once MaxResults matches are collected, which is observable by
// callers and tests.
type Response struct {
	Results    []Result `json:"results"`
	Considered int      `json:"considered"`
}

// Engine runs multi-field searches over a capture store.
type Engine struct {
	gate *bodygate.Gate
}

// New creates a search engine using the given safety gate for body reads.
func New(gate *bodygate.Gate) *Engine {
	return &Engine{gate: gate}
}

// Search compiles the query once, then walks the store in insertion order.
// A compile failure aborts with no partial results; a failed body read only
// drops that one field. Scanning stops as soon as MaxResults exchanges have
// matched.
func (e *Engine) Search(ctx context.Context, store capture.Store, req Request) (*Response, error) {
	pattern, err := textmatch.Compile(req.Query, req.IsRegex)
	if err != nil {
		return nil, err
	}

	contextChars := req.ContextChars
	if contextChars <= 0 {
		contextChars = 120
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	maxPerField := req.MaxMatchesPerField
	if maxPerField <= 0 {
		maxPerField = 3
	}
	wanted := fieldSet(req.Fields)

	resp := &Response{}
	for _, ex := range store.Snapshot() {
		if len(resp.Results) >= maxResults {
			break
		}
		if !req.IncludeFilteredDomains && classify.ShouldFilter(ex.URL, ex.ResourceType) {
			continue
		}
		resp.Considered++

		result := e.searchExchange(ctx, ex, pattern, wanted, contextChars, maxPerField)
		if len(result.Fields) > 0 {
			resp.Results = append(resp.Results, result)
		}
	}

	return resp, nil
}

func (e *Engine) searchExchange(ctx context.Context, ex *capture.Exchange, pattern *textmatch.Pattern, wanted map[string]bool, contextChars, maxPerField int) Result {
	result := Result{
		Seq:          ex.Seq,
		Method:       ex.Method,
		URL:          ex.URL,
		ResourceType: ex.ResourceType,
	}
	if resp := ex.Response(); resp != nil {
		result.Status = resp.Status
		result.StatusText = resp.StatusText
		result.ContentType = resp.ContentType()
	}

	for _, field := range fieldOrder {
		if !wanted[field] {
			continue
		}
		text, ok := e.fieldText(ctx, ex, field)
		if !ok {
			continue
		}

		extraction := textmatch.Extract(text, pattern, contextChars, maxPerField)
		if extraction.TotalMatches == 0 {
			continue
		}
		result.Fields = append(result.Fields, FieldMatch{
			Field:        field,
			TextLength:   len(text),
			TotalMatches: extraction.TotalMatches,
			Snippets:     extraction.Snippets,
		})
	}

	return result
}

// fieldText materializes the text of one field. ok is false when the field
// is absent or its body could not be read safely; either way the rest of
// the exchange keeps being searched.
func (e *Engine) fieldText(ctx context.Context, ex *capture.Exchange, field string) (string, bool) {
	switch field {
	case FieldURL:
		return ex.URL, true
	case FieldRequestHeaders:
		if len(ex.RequestHeaders) == 0 {
			return "", false
		}
		return ex.RequestHeaders.Lines(), true
	case FieldRequestBody:
		if ex.PostData == "" {
			return "", false
		}
		return ex.PostData, true
	case FieldResponseHeaders:
		resp := ex.Response()
		if resp == nil || len(resp.Headers) == 0 {
			return "", false
		}
		return resp.Headers.Lines(), true
	case FieldResponseBody:
		if ex.Response() == nil {
			return "", false
		}
		body, err := e.gate.Fetch(ctx, ex)
		if err != nil {
			return "", false
		}
		return body, true
	}
	return "", false
}

func fieldSet(fields []string) map[string]bool {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
