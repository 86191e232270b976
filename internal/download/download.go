// Package download selects one captured response by URL pattern and persists
// its body to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hraihanm/playwright-mcp-mod/internal/bodygate"
	"github.com/hraihanm/playwright-mcp-mod/internal/classify"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
	"github.com/hraihanm/playwright-mcp-mod/pkg/textmatch"
)

// NotFoundError means no completed exchange matched the URL pattern.
type NotFoundError struct {
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no captured response matches %q; run a network search first to find the right pattern", e.Pattern)
}

// IndexOutOfRangeError means the pattern matched, but not matchIndex times.
type IndexOutOfRangeError struct {
	Index   int
	Matches int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("match index %d out of range: %d matches found (valid indices 0-%d)", e.Index, e.Matches, e.Matches-1)
}

// UnsafeBodyError means the selected response failed the body safety gate.
type UnsafeBodyError struct {
	ContentType string
	Reason      error
}

func (e *UnsafeBodyError) Error() string {
	return fmt.Sprintf("response body cannot be saved as text (content-type %q): %v", e.ContentType, e.Reason)
}

func (e *UnsafeBodyError) Unwrap() error { return e.Reason }

// Request holds one download invocation's parameters.
type Request struct {
	URLPattern             string
	IsRegex                bool
	MatchIndex             int
	OutputPath             string
	IncludeFilteredDomains bool
}

// Result describes a persisted response body.
type Result struct {
	Path         string `json:"path"`
	Method       string `json:"method"`
	URL          string `json:"url"`
	Status       int    `json:"status"`
	ContentType  string `json:"contentType,omitempty"`
	Length       int    `json:"length"`
	TotalMatches int    `json:"totalMatches"`
}

// Downloader persists matched response bodies through the safety gate.
type Downloader struct {
	gate *bodygate.Gate
}

// New creates a downloader using the given safety gate.
func New(gate *bodygate.Gate) *Downloader {
	return &Downloader{gate: gate}
}

// Download collects, in capture order, every completed exchange whose URL
// matches the pattern, selects the MatchIndex-th one, and writes its body to
// OutputPath, creating parent directories as needed. On failure nothing is
// written.
func (d *Downloader) Download(ctx context.Context, store capture.Store, req Request) (*Result, error) {
	candidates, err := MatchCandidates(store, req.URLPattern, req.IsRegex, req.IncludeFilteredDomains)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, &NotFoundError{Pattern: req.URLPattern}
	}
	if req.MatchIndex < 0 || req.MatchIndex >= len(candidates) {
		return nil, &IndexOutOfRangeError{Index: req.MatchIndex, Matches: len(candidates)}
	}

	ex := candidates[req.MatchIndex]
	resp := ex.Response()
	body, err := d.gate.Fetch(ctx, ex)
	if err != nil {
		return nil, &UnsafeBodyError{ContentType: resp.ContentType(), Reason: err}
	}

	if dir := filepath.Dir(req.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(req.OutputPath, []byte(body), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", req.OutputPath, err)
	}

	return &Result{
		Path:         req.OutputPath,
		Method:       ex.Method,
		URL:          ex.URL,
		Status:       resp.Status,
		ContentType:  resp.ContentType(),
		Length:       len(body),
		TotalMatches: len(candidates),
	}, nil
}

// MatchCandidates collects, in capture order, every completed exchange whose
// request URL matches the pattern, honoring the noise filter unless
// overridden. Shared by download and response querying.
func MatchCandidates(store capture.Store, pattern string, isRegex, includeFiltered bool) ([]*capture.Exchange, error) {
	match, err := urlMatcher(pattern, isRegex)
	if err != nil {
		return nil, err
	}

	var candidates []*capture.Exchange
	for _, ex := range store.Snapshot() {
		if ex.Response() == nil {
			continue
		}
		if !includeFiltered && classify.ShouldFilter(ex.URL, ex.ResourceType) {
			continue
		}
		if match(ex.URL) {
			candidates = append(candidates, ex)
		}
	}
	return candidates, nil
}

// urlMatcher builds a boolean URL predicate: case-insensitive substring
// containment for literals, a compiled case-insensitive regex otherwise.
func urlMatcher(pattern string, isRegex bool) (func(string) bool, error) {
	if !isRegex {
		needle := strings.ToLower(pattern)
		return func(url string) bool {
			return strings.Contains(strings.ToLower(url), needle)
		}, nil
	}

	p, err := textmatch.Compile(pattern, true)
	if err != nil {
		return nil, err
	}
	return p.MatchString, nil
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
