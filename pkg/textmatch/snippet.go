package textmatch

import "strings"

// Highlight and ellipsis markers used in rendered snippets. These are literal
// text brackets, not terminal styling, so they survive any transport.
const (
	markStart = ">>>"
	markEnd   = "<<<"
	ellipsis  = "..."
)

// Extraction is the result of one Extract call. TotalMatches counts every
// match in the text, including those beyond the snippet cap, so callers can
// report "N matches, showing first K".
type Extraction struct {
	Snippets     []string
	TotalMatches int
}

// Extract finds all non-overlapping matches of pattern in text, left to
// right, and renders up to maxSnippets context snippets. Each snippet shows
// contextChars bytes on either side of the match, clamped to the text bounds;
// a clamped side is prefixed (or suffixed) with an ellipsis marker and the
// matched span is wrapped in >>> <<< brackets.
//
// Zero-length matches advance the scan position by one byte so extraction
// terminates on any finite input.
func Extract(text string, pattern *Pattern, contextChars, maxSnippets int) Extraction {
	var out Extraction

	pos := 0
	for pos <= len(text) {
		loc := pattern.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		out.TotalMatches++

		if len(out.Snippets) < maxSnippets {
			out.Snippets = append(out.Snippets, renderSnippet(text, start, end, contextChars))
		}

		if end == start {
			pos = end + 1
		} else {
			pos = end
		}
	}

	return out
}

func renderSnippet(text string, start, end, contextChars int) string {
	winStart := start - contextChars
	if winStart < 0 {
		winStart = 0
	}
	winEnd := end + contextChars
	if winEnd > len(text) {
		winEnd = len(text)
	}

	var b strings.Builder
	if winStart > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(text[winStart:start])
	b.WriteString(markStart)
	b.WriteString(text[start:end])
	b.WriteString(markEnd)
	b.WriteString(text[end:winEnd])
	if winEnd < len(text) {
		b.WriteString(ellipsis)
	}
	return b.String()
}
