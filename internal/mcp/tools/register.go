package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: netlog_list_requests
	AddTool(srv, &sdkmcp.Tool{
		Name:        "netlog_list_requests",
		Description: "List captured network requests as a compact transcript: method, URL, status, query params, and a POST body preview. Tracking/analytics traffic, images, and fonts are filtered out unless the include flags are set.",
	}, ToolListRequests(d))

	// Tool 2: netlog_search
	AddTool(srv, &sdkmcp.Tool{
		Name:        "netlog_search",
		Description: "Search captured network traffic for text or a regex. Searches URLs, request bodies, and response bodies by default; headers can be added via fields. Returns context snippets with the match wrapped in >>> <<< markers.",
	}, ToolSearchNetwork(d))

	// Tool 3: netlog_download_response
	AddTool(srv, &sdkmcp.Tool{
		Name:        "netlog_download_response",
		Description: "Save the body of one captured response to a file. Matches URLs by substring (or regex), selects a match by index, and refuses binary or oversized bodies. Run netlog_search first to find the right pattern.",
	}, ToolDownloadResponse(d))

	// Tool 4: netlog_grep
	AddTool(srv, &sdkmcp.Tool{
		Name:        "netlog_grep",
		Description: "Extract context snippets around every match of a text or regex query in a provided text blob. Independent of the capture store; use it on page text or a previously downloaded body.",
	}, ToolGrepText(d))

	// Tool 5: netlog_query_response
	AddTool(srv, &sdkmcp.Tool{
		Name:        "netlog_query_response",
		Description: "Run a jq expression over the JSON body of one captured response, matched by URL pattern. Use this to pull structured values without downloading the whole body.",
	}, ToolQueryResponse(d))
}
