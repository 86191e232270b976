package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hraihanm/playwright-mcp-mod/internal/download"
)

// DownloadResponseInput is the input for netlog_download_response.
type DownloadResponseInput struct {
	URLPattern             string `json:"url_pattern" jsonschema:"URL substring to match (or regex with is_regex=true), case-insensitive"`
	IsRegex                bool   `json:"is_regex,omitempty" jsonschema:"Treat url_pattern as a regular expression. Default: false"`
	MatchIndex             int    `json:"match_index,omitempty" jsonschema:"Which match to download when several URLs match, 0-based in capture order. Default: 0"`
	OutputPath             string `json:"output_path" jsonschema:"Absolute file path to write the response body to; parent directories are created"`
	IncludeFilteredDomains bool   `json:"include_filtered_domains,omitempty" jsonschema:"Also match tracking/analytics/image traffic that is filtered by default"`
}

// DownloadResponseOutput is the output for netlog_download_response.
type DownloadResponseOutput struct {
	Path         string `json:"path"`
	Method       string `json:"method"`
	URL          string `json:"url"`
	Status       int    `json:"status"`
	ContentType  string `json:"contentType,omitempty"`
	Length       int    `json:"length"`
	TotalMatches int    `json:"totalMatches"`
	Hint         string `json:"hint,omitempty"`
}

// ToolDownloadResponse saves one matched response body to disk.
func ToolDownloadResponse(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DownloadResponseInput) (*sdkmcp.CallToolResult, DownloadResponseOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DownloadResponseInput) (*sdkmcp.CallToolResult, DownloadResponseOutput, error) {
		if input.OutputPath == "" {
			return nil, DownloadResponseOutput{}, fmt.Errorf("output_path is required")
		}

		result, err := d.Downloader.Download(ctx, d.Store, download.Request{
			URLPattern:             input.URLPattern,
			IsRegex:                input.IsRegex,
			MatchIndex:             input.MatchIndex,
			OutputPath:             input.OutputPath,
			IncludeFilteredDomains: input.IncludeFilteredDomains,
		})
		if err != nil {
			// Typed errors already carry a human-readable explanation and a
			// suggested next action; hand them to the caller verbatim.
			return nil, DownloadResponseOutput{}, err
		}

		var hint string
		if result.TotalMatches > 1 {
			hint = fmt.Sprintf("%d URLs matched; this was match_index=%d. Use a different match_index to save another.", result.TotalMatches, input.MatchIndex)
		}

		return nil, DownloadResponseOutput{
			Path:         result.Path,
			Method:       result.Method,
			URL:          result.URL,
			Status:       result.Status,
			ContentType:  result.ContentType,
			Length:       result.Length,
			TotalMatches: result.TotalMatches,
			Hint:         hint,
		}, nil
	}
}
