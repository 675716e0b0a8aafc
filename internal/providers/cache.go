package providers

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/systmms/valt/internal/secure"
)

// Document is the decoded content of a secret: a JSON object.
type Document map[string]interface{}

// Clone returns a shallow copy that can be mutated without touching the cache.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the field as a string. Non-string fields count as missing.
func (d Document) String(key string) (string, bool) {
	v, ok := d[key].(string)
	return v, ok
}

// DocumentCache memoizes secret documents per secret id for the lifetime of
// the process. There is no TTL; a successful write replaces the entry.
// Entries are kept sealed in memguard enclaves.
type DocumentCache struct {
	mu   sync.Mutex
	docs map[string]*secure.Sealed
}

// NewDocumentCache creates an empty cache. One instance per invocation.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{docs: make(map[string]*secure.Sealed)}
}

// Get returns a private copy of the cached document.
func (c *DocumentCache) Get(secret string) (Document, bool, error) {
	c.mu.Lock()
	sealed, ok := c.docs[secret]
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var doc Document
	err := sealed.Reveal(func(plain []byte) error {
		return decodeDocument(plain, &doc)
	})
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// Put stores doc under secret, replacing any previous entry.
func (c *DocumentCache) Put(secret string, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.docs[secret]; ok {
		old.Destroy()
	}
	c.docs[secret] = secure.Seal(data)
	return nil
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Close destroys every cached entry.
func (c *DocumentCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for secret, sealed := range c.docs {
		sealed.Destroy()
		delete(c.docs, secret)
	}
}

// decodeDocument keeps numbers as json.Number so a write-back does not
// reformat fields valt never touched.
func decodeDocument(data []byte, doc *Document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(doc)
}
