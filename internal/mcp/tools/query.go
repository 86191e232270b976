package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hraihanm/playwright-mcp-mod/internal/extract"
)

// QueryResponseInput is the input for netlog_query_response.
type QueryResponseInput struct {
	URLPattern             string `json:"url_pattern" jsonschema:"URL substring to match (or regex with is_regex=true), case-insensitive"`
	IsRegex                bool   `json:"is_regex,omitempty" jsonschema:"Treat url_pattern as a regular expression. Default: false"`
	MatchIndex             int    `json:"match_index,omitempty" jsonschema:"Which match to query when several URLs match, 0-based in capture order. Default: 0"`
	Expression             string `json:"expression" jsonschema:"jq expression to run over the JSON response body, e.g. '.items[].name'"`
	MaxResults             int    `json:"max_results,omitempty" jsonschema:"Max extracted values (default: 20)"`
	IncludeFilteredDomains bool   `json:"include_filtered_domains,omitempty" jsonschema:"Also match tracking/analytics/image traffic that is filtered by default"`
}

// QueryResponseOutput is the output for netlog_query_response.
type QueryResponseOutput struct {
	URL          string   `json:"url"`
	Status       int      `json:"status"`
	Values       []any    `json:"values,omitzero"`
	Errors       []string `json:"errors,omitzero"`
	TotalMatches int      `json:"totalMatches"`
	Hint         string   `json:"hint,omitempty"`
}

// ToolQueryResponse runs a jq expression over a matched JSON response body.
func ToolQueryResponse(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryResponseInput) (*sdkmcp.CallToolResult, QueryResponseOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryResponseInput) (*sdkmcp.CallToolResult, QueryResponseOutput, error) {
		result, err := d.Extract.QueryResponse(ctx, d.Store, extract.Request{
			URLPattern:             input.URLPattern,
			IsRegex:                input.IsRegex,
			MatchIndex:             input.MatchIndex,
			Expression:             input.Expression,
			MaxResults:             orDefault(input.MaxResults, d.Config.QueryMaxResults),
			IncludeFilteredDomains: input.IncludeFilteredDomains,
		})
		if err != nil {
			return nil, QueryResponseOutput{}, err
		}

		var hint string
		if len(result.Values) == 0 {
			hint = "Expression produced no values. Use netlog_download_response to inspect the full body."
		}

		return nil, QueryResponseOutput{
			URL:          result.URL,
			Status:       result.Status,
			Values:       result.Values,
			Errors:       result.Errors,
			TotalMatches: result.TotalMatches,
			Hint:         hint,
		}, nil
	}
}
