// Package cache provides a thread-safe generic cache and the caches built on it.
package cache

import "sync"

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// GetOrSet returns the value stored under key, storing the result of create
// first if there is none. create runs under the write lock.
func (c *Cache[K, V]) GetOrSet(key K, create func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.items[key]; ok {
		return val, true
	}
	val := create()
	c.items[key] = val
	return val, false
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeleteFunc removes every entry for which del returns true and reports how many went.
func (c *Cache[K, V]) DeleteFunc(del func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, v := range c.items {
		if del(k, v) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

var renderedMarkdownCache = NewCache[string, []byte]()

func renderedKey(contentHash, renderer, syntaxTheme string) string {
	return contentHash + ":" + renderer + ":" + syntaxTheme
}

func GetRenderedMarkdown(contentHash, renderer, syntaxTheme string) ([]byte, bool) {
	return renderedMarkdownCache.Get(renderedKey(contentHash, renderer, syntaxTheme))
}

func SetRenderedMarkdown(contentHash, renderer, syntaxTheme string, html []byte) {
	renderedMarkdownCache.Set(renderedKey(contentHash, renderer, syntaxTheme), html)
}

func ClearRenderedMarkdownCache() {
	renderedMarkdownCache.Clear()
}
