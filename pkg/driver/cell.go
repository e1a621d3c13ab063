package driver

import "sync"

// pageCell is the single shared mutable resource in the engine: the
// reference to the currently active page. It is written by the
// browser's page-created event goroutine and read at the start of each
// instruction, so access is serialized through a mutex rather than
// left as an unguarded variable.
type pageCell struct {
	mu   sync.RWMutex
	page Page
}

func (c *pageCell) Get() Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *pageCell) Set(p Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = p
}

// Swap sets the page and reports whether it changed.
func (c *pageCell) Swap(p Page) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.page != p
	c.page = p
	return changed
}
