// Package render produces the compact human-readable transcript of captured
// exchanges used by the listing tool.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hraihanm/playwright-mcp-mod/internal/classify"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
)

// Truncation limits for the rendered transcript.
const (
	maxQueryValueChars = 100
	maxPostBodyChars   = 500
)

// Options controls which asset classes survive into the listing. Images and
// fonts have their own switches, independent of the blanket noise filter.
type Options struct {
	IncludeImages bool
	IncludeFonts  bool
}

// Simplified renders surviving exchanges as a flat ordered list of blocks,
// one per exchange, in capture order. No sorting, grouping, or deduplication.
func Simplified(store capture.Store, opts Options) string {
	var b strings.Builder
	shown := 0

	for _, ex := range store.Snapshot() {
		if !opts.IncludeImages && classify.IsImage(ex.URL, ex.ResourceType) {
			continue
		}
		if !opts.IncludeFonts && classify.IsFont(ex.URL, ex.ResourceType) {
			continue
		}
		if classify.IsTrackingDomain(ex.URL) {
			continue
		}

		if shown > 0 {
			b.WriteByte('\n')
		}
		writeExchange(&b, ex)
		shown++
	}

	if shown == 0 {
		return "No network requests captured (after filtering)."
	}
	return b.String()
}

func writeExchange(b *strings.Builder, ex *capture.Exchange) {
	fmt.Fprintf(b, "[%d] %s %s\n", ex.Seq, ex.Method, ex.URL)

	if resp := ex.Response(); resp != nil {
		fmt.Fprintf(b, "    Status: %d %s\n", resp.Status, resp.StatusText)
	} else {
		b.WriteString("    Status: (no response)\n")
	}

	if params := queryParams(ex.URL); len(params) > 0 {
		b.WriteString("    Query Params:\n")
		for _, kv := range params {
			fmt.Fprintf(b, "      %s=%s\n", kv[0], truncate(kv[1], maxQueryValueChars))
		}
	}

	if ex.PostData != "" {
		fmt.Fprintf(b, "    POST Body: %s\n", truncate(ex.PostData, maxPostBodyChars))
	}
}

// queryParams extracts decoded key/value pairs from the URL's query string,
// preserving their order of appearance.
func queryParams(rawURL string) [][2]string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return nil
	}

	var out [][2]string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		out = append(out, [2]string{key, value})
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
