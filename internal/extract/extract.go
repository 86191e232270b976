// Package extract runs jq expressions over captured JSON response bodies,
// so structured values can be pulled out of a matched response without
// saving it to disk first.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/hraihanm/playwright-mcp-mod/internal/bodygate"
	"github.com/hraihanm/playwright-mcp-mod/internal/download"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
)

// Request selects a response the same way the downloader does, plus the jq
// expression to evaluate against its body.
type Request struct {
	URLPattern             string
	IsRegex                bool
	MatchIndex             int
	Expression             string
	MaxResults             int
	IncludeFilteredDomains bool
}

// Result holds the values produced by the jq expression.
type Result struct {
	URL          string   `json:"url"`
	Status       int      `json:"status"`
	Values       []any    `json:"values"`
	Errors       []string `json:"errors,omitempty"`
	TotalMatches int      `json:"totalMatches"`
}

// Engine evaluates jq expressions against gated response bodies.
type Engine struct {
	gate *bodygate.Gate
}

// New creates an extraction engine using the given safety gate.
func New(gate *bodygate.Gate) *Engine {
	return &Engine{gate: gate}
}

// QueryResponse matches exchanges by URL pattern, selects one by index,
// reads its body through the safety gate, and runs the jq expression over
// the parsed JSON. Selection errors are the downloader's typed errors.
func (e *Engine) QueryResponse(ctx context.Context, store capture.Store, req Request) (*Result, error) {
	query, err := gojq.Parse(req.Expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	candidates, err := download.MatchCandidates(store, req.URLPattern, req.IsRegex, req.IncludeFilteredDomains)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &download.NotFoundError{Pattern: req.URLPattern}
	}
	if req.MatchIndex < 0 || req.MatchIndex >= len(candidates) {
		return nil, &download.IndexOutOfRangeError{Index: req.MatchIndex, Matches: len(candidates)}
	}

	ex := candidates[req.MatchIndex]
	resp := ex.Response()
	body, err := e.gate.Fetch(ctx, ex)
	if err != nil {
		return nil, &download.UnsafeBodyError{ContentType: resp.ContentType(), Reason: err}
	}

	var input any
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		return nil, fmt.Errorf("response body is not valid JSON: %w", err)
	}

	result := &Result{
		URL:          ex.URL,
		Status:       resp.Status,
		Values:       make([]any, 0),
		TotalMatches: len(candidates),
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if itemErr, isErr := v.(error); isErr {
			result.Errors = append(result.Errors, itemErr.Error())
			continue
		}
		if v == nil {
			continue
		}
		result.Values = append(result.Values, v)
		if len(result.Values) >= maxResults {
			break
		}
	}

	return result, nil
}
