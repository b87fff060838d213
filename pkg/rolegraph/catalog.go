package rolegraph

import (
	"sort"
	"sync"
)

// Catalog is the closed set of valid permission identifiers. Modules and
// plugins register their permissions at startup; Graph.Validate uses the
// catalog to flag roles granting identifiers nothing ever declared
// (usually a typo in a registration call).
type Catalog struct {
	mu    sync.RWMutex
	perms map[Permission]struct{}
}

// NewCatalog creates an empty permission catalog.
func NewCatalog() *Catalog {
	return &Catalog{perms: make(map[Permission]struct{})}
}

// Register adds permissions to the catalog. Registration is idempotent;
// empty identifiers are dropped.
func (c *Catalog) Register(perms ...Permission) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range perms {
		if p == "" {
			continue
		}
		c.perms[p] = struct{}{}
	}
}

// Known reports whether p is a registered permission.
func (c *Catalog) Known(p Permission) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.perms[p]
	return ok
}

// All returns every registered permission, sorted.
func (c *Catalog) All() []Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]Permission, 0, len(c.perms))
	for p := range c.perms {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Len returns the number of registered permissions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.perms)
}
