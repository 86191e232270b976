package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hraihanm/playwright-mcp-mod/internal/bodygate"
	"github.com/hraihanm/playwright-mcp-mod/internal/cache"
	"github.com/hraihanm/playwright-mcp-mod/internal/cdpcapture"
	"github.com/hraihanm/playwright-mcp-mod/internal/config"
	"github.com/hraihanm/playwright-mcp-mod/internal/download"
	"github.com/hraihanm/playwright-mcp-mod/internal/extract"
	"github.com/hraihanm/playwright-mcp-mod/internal/logging"
	"github.com/hraihanm/playwright-mcp-mod/internal/mcp"
	"github.com/hraihanm/playwright-mcp-mod/internal/mcp/tools"
	"github.com/hraihanm/playwright-mcp-mod/internal/netsearch"
	"github.com/hraihanm/playwright-mcp-mod/pkg/capture"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration comes from environment variables:
	// - CDP_URL: DevTools endpoint of the browser to attach to
	// - TAB_URL_FILTER: only attach to tabs whose URL contains this
	// - LOG_LEVEL, LOG_FILE: logging (default: info, stderr)
	// See internal/config for the full list.
	cfg := config.Load()

	logCleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		slog.Error("failed to setup logging", "error", err)
		os.Exit(1)
	}
	defer logCleanup()

	store := capture.NewMemoryStore()

	recorder := cdpcapture.NewRecorder(cfg, store)
	if err := recorder.Connect(ctx); err != nil {
		slog.Error("failed to attach to browser", "cdp_url", cfg.CDPURL, "error", err)
		os.Exit(1)
	}
	defer recorder.Close()

	bodies, err := cache.NewBodyCache(cfg.BodyCacheItems)
	if err != nil {
		slog.Error("failed to create body cache", "error", err)
		os.Exit(1)
	}
	gate := bodygate.New(bodies)

	server, err := mcp.NewServer(&tools.Deps{
		Store:      store,
		Config:     cfg,
		Search:     netsearch.New(gate),
		Downloader: download.New(gate),
		Extract:    extract.New(gate),
	})
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	slog.Info("starting netlog MCP server on stdio")
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
