package providers

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCache(t *testing.T) {
	t.Parallel()

	c := NewDocumentCache()
	defer c.Close()

	_, ok, err := c.Get("app")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("app", Document{"user": "admin", "port": json.Number("5432")}))
	doc, ok, err := c.Get("app")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "admin", doc["user"])
	assert.Equal(t, json.Number("5432"), doc["port"])

	// callers get a private copy
	doc["user"] = "changed"
	again, _, err := c.Get("app")
	require.NoError(t, err)
	assert.Equal(t, "admin", again["user"])

	require.NoError(t, c.Put("app", Document{"user": "root"}))
	replaced, _, err := c.Get("app")
	require.NoError(t, err)
	assert.Equal(t, Document{"user": "root"}, replaced)
	assert.Equal(t, 1, c.Len())
}

func TestDocumentCacheEmptyDocument(t *testing.T) {
	t.Parallel()

	c := NewDocumentCache()
	require.NoError(t, c.Put("empty", Document{}))

	doc, ok, err := c.Get("empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, doc)
}

func TestDocumentCacheClose(t *testing.T) {
	t.Parallel()

	c := NewDocumentCache()
	require.NoError(t, c.Put("a", Document{"k": "v"}))
	c.Close()

	assert.Equal(t, 0, c.Len())
	_, ok, err := c.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDocumentCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewDocumentCache()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Put("shared", Document{"k": "v"}))
			_, _, _ = c.Get("shared")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}

func TestDocumentString(t *testing.T) {
	t.Parallel()

	doc := Document{"s": "text", "n": json.Number("1"), "b": true, "o": map[string]interface{}{}}

	v, ok := doc.String("s")
	assert.True(t, ok)
	assert.Equal(t, "text", v)

	for _, key := range []string{"n", "b", "o", "missing"} {
		_, ok := doc.String(key)
		assert.False(t, ok, key)
	}
}
