package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
)

// Documents holds the text of every document the client has open.
type Documents struct {
	mu   sync.RWMutex
	text map[string]string
}

func NewDocuments() *Documents {
	return &Documents{text: make(map[string]string)}
}

func (d *Documents) Update(uri, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text[uri] = text
}

func (d *Documents) Close(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.text, uri)
}

func (d *Documents) Get(uri string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	text, ok := d.text[uri]
	return text, ok
}

func (d *Documents) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.text)
}

// uriToPath turns a file:// URI into a local path. Other URIs are
// returned unchanged.
func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}
