// Package tools contains the MCP tool implementations for the network
// capture query engine.
package tools

import (
	"github.com/hraihanm/playwright-mcp-mod/internal/config"
	"github.com/hraihanm/playwright-mcp-mod/internal/download"
	"github.com/hraihanm/playwright-mcp-mod/internal/extract"
	"github.com/hraihanm/playwright-mcp-mod/internal/netsearch"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
)

// Deps contains all dependencies available to the tools.
type Deps struct {
	Store      capture.Store
	Config     *config.Config
	Search     *netsearch.Engine
	Downloader *download.Downloader
	Extract    *extract.Engine
}
