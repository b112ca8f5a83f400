// Package cacheproxy sits between the client and the origin, serving static
// assets cache-first and selected API reads network-first with an offline
// fallback. Cached responses live in named generations so an upgrade can
// install a new generation, warm it, and drop the old ones on activation.
package cacheproxy

import (
	"net/http"
	"sync"
)

// entry is a stored response: enough to replay it byte for byte.
type entry struct {
	status int
	header http.Header
	body   []byte
}

// Cache is one named generation of stored responses, keyed by request URI.
type Cache struct {
	name string

	mu      sync.RWMutex
	entries map[string]entry
}

func newCache(name string) *Cache {
	return &Cache{name: name, entries: make(map[string]entry)}
}

func (c *Cache) Name() string { return c.name }

func (c *Cache) get(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) put(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// putAll commits a batch atomically: callers stage entries first so a partial
// fetch failure never leaves a half-warmed cache.
func (c *Cache) putAll(staged map[string]entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range staged {
		c.entries[key] = e
	}
}

// Clear drops every entry but keeps the generation itself.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Registry holds every live cache generation by name.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

// Open returns the named generation, creating it on first use.
func (r *Registry) Open(name string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[name]
	if !ok {
		c = newCache(name)
		r.caches[name] = c
	}
	return c
}

// Names lists the live generations.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	return names
}

// Delete drops a whole generation.
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, name)
}
