package capture

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreOrder(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		store.Append(&Exchange{Method: "GET", URL: fmt.Sprintf("https://example.com/%d", i)})
	}

	snap := store.Snapshot()
	require.Len(t, snap, 5)
	for i, ex := range snap {
		assert.Equal(t, int64(i), ex.Seq)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), ex.URL)
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	store := NewMemoryStore()
	store.Append(&Exchange{URL: "https://a.example"})

	snap := store.Snapshot()
	store.Append(&Exchange{URL: "https://b.example"})

	assert.Len(t, snap, 1, "snapshot must not grow after later appends")
	assert.Equal(t, 2, store.Len())
}

func TestHeadersGetSet(t *testing.T) {
	h := Headers{{Name: "Content-Type", Value: "application/json"}}

	t.Run("case-insensitive get", func(t *testing.T) {
		assert.Equal(t, "application/json", h.Get("content-type"))
		assert.Equal(t, "", h.Get("authorization"))
	})

	t.Run("set overwrites existing", func(t *testing.T) {
		h2 := h.Set("CONTENT-TYPE", "text/html")
		assert.Equal(t, "text/html", h2.Get("content-type"))
		assert.Len(t, h2, 1)
	})

	t.Run("set appends new", func(t *testing.T) {
		h2 := h.Set("X-Trace", "abc")
		assert.Equal(t, "abc", h2.Get("x-trace"))
	})
}

func TestHeadersLines(t *testing.T) {
	h := Headers{
		{Name: "Accept", Value: "application/json"},
		{Name: "Authorization", Value: "Bearer xyz"},
	}
	assert.Equal(t, "Accept: application/json\nAuthorization: Bearer xyz", h.Lines())
}

func TestExchangeResponsePublication(t *testing.T) {
	ex := &Exchange{Method: "GET", URL: "https://a.example"}
	assert.Nil(t, ex.Response(), "exchange starts in flight")

	ex.SetResponse(NewResponse(204, "No Content", nil, nil))
	resp := ex.Response()
	require.NotNil(t, resp)
	assert.Equal(t, 204, resp.Status)
}

func TestResponseText(t *testing.T) {
	t.Run("nil body func is unavailable", func(t *testing.T) {
		resp := NewResponse(200, "OK", nil, nil)
		_, err := resp.Text(context.Background())
		assert.Error(t, err)
	})

	t.Run("body func result", func(t *testing.T) {
		resp := NewResponse(200, "OK", nil, func(context.Context) (string, error) {
			return "hello", nil
		})
		body, err := resp.Text(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "hello", body)
	})
}
