package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hraihanm/playwright-mcp-mod/internal/config"
	"github.com/hraihanm/playwright-mcp-mod/pkg/textmatch"
)

func grepDeps() *Deps {
	return &Deps{Config: config.Load()}
}

func TestToolGrepText_LiteralMatch(t *testing.T) {
	handler := ToolGrepText(grepDeps())

	_, out, err := handler(context.Background(), nil, GrepTextInput{
		Text:  "order confirmed: total $42.50, shipping to warehouse",
		Query: "total",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.TotalMatches)
	require.Len(t, out.Snippets, 1)
	assert.Contains(t, out.Snippets[0], ">>>total<<<")
	assert.Empty(t, out.Hint)
}

func TestToolGrepText_HintWhenCapped(t *testing.T) {
	handler := ToolGrepText(grepDeps())

	_, out, err := handler(context.Background(), nil, GrepTextInput{
		Text:       strings.Repeat("item ", 10),
		Query:      "item",
		MaxMatches: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, out.TotalMatches)
	assert.Len(t, out.Snippets, 3)
	assert.Equal(t, "10 matches total, showing first 3.", out.Hint)
}

func TestToolGrepText_InvalidRegex(t *testing.T) {
	handler := ToolGrepText(grepDeps())

	_, _, err := handler(context.Background(), nil, GrepTextInput{
		Text:    "anything",
		Query:   "[unclosed",
		IsRegex: true,
	})
	require.Error(t, err)

	var invalid *textmatch.InvalidPatternError
	assert.ErrorAs(t, err, &invalid)
}

func TestToolGrepText_NoMatches(t *testing.T) {
	handler := ToolGrepText(grepDeps())

	_, out, err := handler(context.Background(), nil, GrepTextInput{
		Text:  "nothing relevant here",
		Query: "jackpot",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalMatches)
	assert.Empty(t, out.Snippets)
}
