// Package componentcache maps (component name, component version) to a
// compiled sandbox module, using a read-then-write two-phase lookup so a
// caller never holds a writer lock across an expensive compile.
package componentcache

import (
	"strings"
	"sync"

	"github.com/fuschiarun/fuschia/internal/sandbox"
	"github.com/fuschiarun/fuschia/internal/types"
)

// Key identifies a compiled component by its locked name and version.
type Key struct {
	Name    string
	Version string
}

// sanitize replaces "/" with "--" so a component name can be used as a
// single path segment, per the {base}/{sanitized_name}--{version}/ layout.
func sanitize(name string) string {
	return strings.ReplaceAll(name, "/", "--")
}

// Path returns the on-disk directory this key's component.wasm lives under.
func (k Key) Path(base string) string {
	return base + "/" + sanitize(k.Name) + "--" + k.Version
}

// Cache caches compiled sandbox modules keyed by (name, version).
type Cache struct {
	base     string
	embedder sandbox.Embedder

	mu    sync.RWMutex
	cache map[Key]sandbox.Module
}

// New creates a Cache that compiles components found under base using the
// given embedder.
func New(base string, embedder sandbox.Embedder) *Cache {
	return &Cache{
		base:     base,
		embedder: embedder,
		cache:    make(map[Key]sandbox.Module),
	}
}

// GetOrCompile returns the cached module for key, compiling and inserting it
// if absent. Two callers racing on the same absent key may both compile;
// the cache converges on whichever insert lands last (last writer wins).
func (c *Cache) GetOrCompile(nodeID string, key Key) (sandbox.Module, error) {
	c.mu.RLock()
	if m, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	path := key.Path(c.base)
	module, err := c.embedder.Compile(path)
	if err != nil {
		return nil, &types.ComponentLoadError{NodeID: nodeID, Message: err.Error()}
	}

	c.mu.Lock()
	c.cache[key] = module
	c.mu.Unlock()

	return module, nil
}

// Clear empties the cache, e.g. on explicit request or runtime teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[Key]sandbox.Module)
}
