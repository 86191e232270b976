package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hraihanm/playwright-mcp-mod/pkg/textmatch"
)

// GrepTextInput is the input for netlog_grep.
type GrepTextInput struct {
	Text         string `json:"text" jsonschema:"The text to search in"`
	Query        string `json:"query" jsonschema:"Text or regex to search for. Matching is always case-insensitive."`
	IsRegex      bool   `json:"is_regex,omitempty" jsonschema:"Treat query as a regular expression. Default: false (literal)"`
	ContextChars int    `json:"context_chars,omitempty" jsonschema:"Context window around each match (default: 200)"`
	MaxMatches   int    `json:"max_matches,omitempty" jsonschema:"Snippet cap; the total match count is still reported (default: 20)"`
}

// GrepTextOutput is the output for netlog_grep.
type GrepTextOutput struct {
	Snippets     []string `json:"snippets,omitzero"`
	TotalMatches int      `json:"totalMatches"`
	Hint         string   `json:"hint,omitempty"`
}

// ToolGrepText extracts context snippets from a single text blob, for
// full-document text rather than per-exchange search.
func ToolGrepText(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GrepTextInput) (*sdkmcp.CallToolResult, GrepTextOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GrepTextInput) (*sdkmcp.CallToolResult, GrepTextOutput, error) {
		pattern, err := textmatch.Compile(input.Query, input.IsRegex)
		if err != nil {
			return nil, GrepTextOutput{}, err
		}

		extraction := textmatch.Extract(
			input.Text,
			pattern,
			orDefault(input.ContextChars, d.Config.GrepContextChars),
			orDefault(input.MaxMatches, d.Config.GrepMaxMatches),
		)

		var hint string
		if extraction.TotalMatches > len(extraction.Snippets) {
			hint = fmt.Sprintf("%d matches total, showing first %d.", extraction.TotalMatches, len(extraction.Snippets))
		}

		return nil, GrepTextOutput{
			Snippets:     extraction.Snippets,
			TotalMatches: extraction.TotalMatches,
			Hint:         hint,
		}, nil
	}
}
