package usecase

import "sync"

// NameCache maps carrier codes to display names for one search session.
// Entries are never removed; a later write for the same code replaces the earlier one.
type NameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewNameCache creates an empty cache
func NewNameCache() *NameCache {
	return &NameCache{names: make(map[string]string)}
}

// Get returns the cached name for code
func (c *NameCache) Get(code string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[code]
	return name, ok
}

// Set records name for code
func (c *NameCache) Set(code, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[code] = name
}

// Display returns the resolved name, or the code itself while unresolved
func (c *NameCache) Display(code string) string {
	if name, ok := c.Get(code); ok {
		return name
	}
	return code
}

// Missing returns the codes of codes that have no entry, without duplicates
func (c *NameCache) Missing(codes []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool, len(codes))
	var missing []string
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		if _, ok := c.names[code]; !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

// Len returns the number of cached codes
func (c *NameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// Snapshot copies the current entries
func (c *NameCache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.names))
	for code, name := range c.names {
		out[code] = name
	}
	return out
}
