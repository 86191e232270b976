// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Tool output limit defaults.
const (
	DefaultSearchContextChars   = 120
	DefaultSearchMaxResults     = 20
	DefaultMatchesPerFieldValue = 3
	DefaultGrepContextChars     = 200
	DefaultGrepMaxMatches       = 20
	DefaultQueryMaxResults      = 20
)

// Config holds all configuration for the MCP server.
type Config struct {
	CDPURL         string        // CDP_URL, default "http://127.0.0.1:9222"
	TabURLFilter   string        // TAB_URL_FILTER, default "" (attach to all page targets)
	BodyTimeout    time.Duration // BODY_TIMEOUT_MS, default 10000ms (10s)
	BodyCacheItems int           // BODY_CACHE_MAX_ITEMS, default 256
	ReloadOnAttach bool          // RELOAD_ON_ATTACH, default false

	// Tool output limits
	SearchContextChars    int // SEARCH_CONTEXT_CHARS
	SearchMaxResults      int // SEARCH_MAX_RESULTS
	SearchMatchesPerField int // SEARCH_MATCHES_PER_FIELD
	GrepContextChars      int // GREP_CONTEXT_CHARS
	GrepMaxMatches        int // GREP_MAX_MATCHES
	QueryMaxResults       int // QUERY_MAX_RESULTS

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		CDPURL:         getEnvString("CDP_URL", "http://127.0.0.1:9222"),
		TabURLFilter:   getEnvString("TAB_URL_FILTER", ""),
		BodyTimeout:    getEnvDurationMs("BODY_TIMEOUT_MS", 10000),
		BodyCacheItems: getEnvInt("BODY_CACHE_MAX_ITEMS", 256),
		ReloadOnAttach: getEnvBool("RELOAD_ON_ATTACH", false),

		SearchContextChars:    getEnvInt("SEARCH_CONTEXT_CHARS", DefaultSearchContextChars),
		SearchMaxResults:      getEnvInt("SEARCH_MAX_RESULTS", DefaultSearchMaxResults),
		SearchMatchesPerField: getEnvInt("SEARCH_MATCHES_PER_FIELD", DefaultMatchesPerFieldValue),
		GrepContextChars:      getEnvInt("GREP_CONTEXT_CHARS", DefaultGrepContextChars),
		GrepMaxMatches:        getEnvInt("GREP_MAX_MATCHES", DefaultGrepMaxMatches),
		QueryMaxResults:       getEnvInt("QUERY_MAX_RESULTS", DefaultQueryMaxResults),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
