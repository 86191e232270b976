package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hraihanm/playwright-mcp-mod/internal/netsearch"
)

// SearchNetworkInput is the input for netlog_search.
type SearchNetworkInput struct {
	Query                  string   `json:"query" jsonschema:"Text or regex to search for. Matching is always case-insensitive."`
	IsRegex                bool     `json:"is_regex,omitempty" jsonschema:"Treat query as a regular expression. Default: false (literal)"`
	Fields                 []string `json:"fields,omitempty" jsonschema:"Fields to search: url, requestHeaders, requestBody, responseHeaders, responseBody. Default: url, requestBody, responseBody"`
	ContextChars           int      `json:"context_chars,omitempty" jsonschema:"Context window around each match (default: 120)"`
	MaxResults             int      `json:"max_results,omitempty" jsonschema:"Stop after this many matching exchanges (default: 20)"`
	MaxMatchesPerField     int      `json:"max_matches_per_field,omitempty" jsonschema:"Snippet cap per field; total match counts are still reported (default: 3)"`
	IncludeFilteredDomains bool     `json:"include_filtered_domains,omitempty" jsonschema:"Also search tracking/analytics/image traffic that is filtered by default"`
}

// SearchNetworkOutput is the output for netlog_search.
type SearchNetworkOutput struct {
	Results    []netsearch.Result `json:"results,omitzero"`
	Considered int                `json:"considered"`
	Hint       string             `json:"hint,omitempty"`
}

// ToolSearchNetwork searches captured exchanges field by field.
func ToolSearchNetwork(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchNetworkInput) (*sdkmcp.CallToolResult, SearchNetworkOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchNetworkInput) (*sdkmcp.CallToolResult, SearchNetworkOutput, error) {
		searchReq := netsearch.Request{
			Query:                  input.Query,
			IsRegex:                input.IsRegex,
			Fields:                 input.Fields,
			ContextChars:           orDefault(input.ContextChars, d.Config.SearchContextChars),
			MaxResults:             orDefault(input.MaxResults, d.Config.SearchMaxResults),
			MaxMatchesPerField:     orDefault(input.MaxMatchesPerField, d.Config.SearchMatchesPerField),
			IncludeFilteredDomains: input.IncludeFilteredDomains,
		}

		resp, err := d.Search.Search(ctx, d.Store, searchReq)
		if err != nil {
			return nil, SearchNetworkOutput{}, err
		}

		var hint string
		switch {
		case len(resp.Results) == 0:
			hint = fmt.Sprintf("No matches in %d exchanges. Try is_regex=true, more fields, or include_filtered_domains=true.", resp.Considered)
		case len(resp.Results) == searchReq.MaxResults:
			hint = fmt.Sprintf("Result cap reached after scanning %d exchanges; narrow the query or raise max_results.", resp.Considered)
		default:
			hint = fmt.Sprintf("%d of %d scanned exchanges matched. Use netlog_download_response to save a body.", len(resp.Results), resp.Considered)
		}

		return nil, SearchNetworkOutput{
			Results:    resp.Results,
			Considered: resp.Considered,
			Hint:       hint,
		}, nil
	}
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
