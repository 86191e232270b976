package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hraihanm/playwright-mcp-mod/internal/render"
)

// ListRequestsInput is the input for netlog_list_requests.
type ListRequestsInput struct {
	IncludeImages bool `json:"include_images,omitempty" jsonschema:"Include image requests in the listing. Default: false"`
	IncludeFonts  bool `json:"include_fonts,omitempty" jsonschema:"Include font requests in the listing. Default: false"`
}

// ListRequestsOutput is the output for netlog_list_requests.
type ListRequestsOutput struct {
	Listing string `json:"listing"`
	Hint    string `json:"hint,omitempty"`
}

// ToolListRequests renders the simplified transcript of captured exchanges.
func ToolListRequests(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListRequestsInput) (*sdkmcp.CallToolResult, ListRequestsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListRequestsInput) (*sdkmcp.CallToolResult, ListRequestsOutput, error) {
		listing := render.Simplified(d.Store, render.Options{
			IncludeImages: input.IncludeImages,
			IncludeFonts:  input.IncludeFonts,
		})

		return nil, ListRequestsOutput{
			Listing: listing,
			Hint:    "Use netlog_search to find content inside request/response bodies, or netlog_download_response to save one.",
		}, nil
	}
}
