package rolegraph

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Permission is an opaque, case-sensitive capability identifier.
//
// Permissions have no internal structure; equality is exact string match.
// By convention an "Own" suffix (e.g. "eventUpdateOwn") denotes an
// ownership-scoped variant of a broader permission. The graph does not
// interpret that convention; callers pair the broad and own-scoped
// permission with an owner comparison (see authz.Ownership).
type Permission string

// CacheObserver receives closure cache hit/miss notifications.
// Implemented by observability.Metrics; a nil observer is valid.
type CacheObserver interface {
	Hit()
	Miss()
}

// defaultClosureCacheSize bounds the per-role closure cache. Role graphs are
// small and fixed at deploy time, so this is effectively "all roles".
const defaultClosureCacheSize = 512

type roleEntry struct {
	perms   map[Permission]struct{}
	extends map[string]struct{}
}

// closure is a materialized reflexive-transitive view of one role.
type closure struct {
	held  map[string]struct{}
	perms map[Permission]struct{}
}

// Graph is the process-wide role collection. It is built during a startup
// registration window and read-mostly thereafter; all methods are safe for
// concurrent use.
type Graph struct {
	mu       sync.RWMutex
	roles    map[string]*roleEntry
	pending  map[string]map[string]struct{} // extend targets that were unknown at Extend time
	closures *lru.Cache[string, closure]
	observer CacheObserver
}

// Option configures a Graph.
type Option func(*Graph)

// WithCacheObserver wires closure cache hit/miss counters.
func WithCacheObserver(o CacheObserver) Option {
	return func(g *Graph) {
		g.observer = o
	}
}

// WithCacheSize overrides the closure cache capacity. Sizes below one
// fall back to the default.
func WithCacheSize(n int) Option {
	return func(g *Graph) {
		if n < 1 {
			return
		}
		cache, _ := lru.New[string, closure](n)
		g.closures = cache
	}
}

// NewGraph creates an empty role graph.
func NewGraph(opts ...Option) *Graph {
	cache, _ := lru.New[string, closure](defaultClosureCacheSize)
	g := &Graph{
		roles:    make(map[string]*roleEntry),
		pending:  make(map[string]map[string]struct{}),
		closures: cache,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add registers a role if not already present, merging perms into its own
// permission set otherwise. It never removes permissions and never fails;
// a role with zero own permissions is valid. Empty permission strings are
// dropped.
func (g *Graph) Add(name string, perms ...Permission) {
	if name == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	entry := g.ensureLocked(name)
	changed := false
	for _, p := range perms {
		if p == "" {
			continue
		}
		if _, ok := entry.perms[p]; !ok {
			entry.perms[p] = struct{}{}
			changed = true
		}
	}
	if changed {
		g.closures.Purge()
	}
}

// AddPermissions merges perms into an existing or new role. It is an alias
// for Add kept for registration-site readability.
func (g *Graph) AddPermissions(name string, perms ...Permission) {
	g.Add(name, perms...)
}

// Extend adds inheritance edges from name to each role in extends. Edges to
// role names not currently known are silently skipped and tracked for
// Validate; re-adding an existing edge is a no-op. The source role is
// registered implicitly if unknown, so Add and Extend may arrive in any
// order across plugins.
func (g *Graph) Extend(name string, extends ...string) {
	if name == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	entry := g.ensureLocked(name)
	changed := false
	for _, target := range extends {
		if target == "" || target == name {
			continue
		}
		if _, known := g.roles[target]; !known {
			if g.pending[name] == nil {
				g.pending[name] = make(map[string]struct{})
			}
			g.pending[name][target] = struct{}{}
			continue
		}
		if _, ok := entry.extends[target]; !ok {
			entry.extends[target] = struct{}{}
			changed = true
		}
		if p, ok := g.pending[name]; ok {
			delete(p, target)
			if len(p) == 0 {
				delete(g.pending, name)
			}
		}
	}
	if changed {
		g.closures.Purge()
	}
}

// HeldRoles returns name plus every role transitively reachable over extends
// edges. A visited set guarantees termination even on a cyclic graph.
// Unknown names yield an empty set.
func (g *Graph) HeldRoles(name string) map[string]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cl, ok := g.closureLocked(name)
	if !ok {
		return map[string]struct{}{}
	}
	return copyStringSet(cl.held)
}

// OwnPermissions returns the permissions granted directly to name, excluding
// anything inherited. Unknown names yield an empty set.
func (g *Graph) OwnPermissions(name string) map[Permission]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	entry, ok := g.roles[name]
	if !ok {
		return map[Permission]struct{}{}
	}
	return copyPermSet(entry.perms)
}

// EffectivePermissions returns the union of own permissions over
// HeldRoles(name). This is the closure used to build a principal.
func (g *Graph) EffectivePermissions(name string) map[Permission]struct{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cl, ok := g.closureLocked(name)
	if !ok {
		return map[Permission]struct{}{}
	}
	return copyPermSet(cl.perms)
}

// Known reports whether name is a registered role.
func (g *Graph) Known(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.roles[name]
	return ok
}

// Roles returns all registered role names, sorted.
func (g *Graph) Roles() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.roles))
	for name := range g.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered roles.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.roles)
}

// DetectCycles returns the sorted names of roles that participate in a
// cyclic extends chain. An empty result means the graph is a DAG.
func (g *Graph) DetectCycles() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		white = iota // unvisited
		gray         // on the current DFS stack
		black        // fully explored
	)
	color := make(map[string]int, len(g.roles))
	cyclic := make(map[string]struct{})

	var stack []string
	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		stack = append(stack, name)
		for target := range g.roles[name].extends {
			switch color[target] {
			case white:
				visit(target)
			case gray:
				// Every role on the stack from target onward is on the cycle.
				for i := len(stack) - 1; i >= 0; i-- {
					cyclic[stack[i]] = struct{}{}
					if stack[i] == target {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
	}
	for name := range g.roles {
		if color[name] == white {
			visit(name)
		}
	}

	names := make([]string, 0, len(cyclic))
	for name := range cyclic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate runs the post-registration checks that must pass before serving
// traffic: no cyclic extends chains, no extend edges whose target was never
// registered, and (when catalog is non-nil) no role granting a permission
// outside the catalog. Errors are returned in deterministic order.
func (g *Graph) Validate(catalog *Catalog) []error {
	var errs []error

	if cyclic := g.DetectCycles(); len(cyclic) > 0 {
		errs = append(errs, fmt.Errorf("rolegraph: cyclic extends chain involving roles %v", cyclic))
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	sources := make([]string, 0, len(g.pending))
	for source := range g.pending {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		targets := make([]string, 0, len(g.pending[source]))
		for target := range g.pending[source] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			errs = append(errs, fmt.Errorf("rolegraph: role %q extends unknown role %q", source, target))
		}
	}

	if catalog != nil {
		names := make([]string, 0, len(g.roles))
		for name := range g.roles {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			perms := make([]string, 0)
			for p := range g.roles[name].perms {
				if !catalog.Known(p) {
					perms = append(perms, string(p))
				}
			}
			sort.Strings(perms)
			for _, p := range perms {
				errs = append(errs, fmt.Errorf("rolegraph: role %q grants permission %q not in catalog", name, p))
			}
		}
	}

	return errs
}

// ensureLocked returns the entry for name, creating it if absent.
// Callers must hold the write lock.
func (g *Graph) ensureLocked(name string) *roleEntry {
	entry, ok := g.roles[name]
	if !ok {
		entry = &roleEntry{
			perms:   make(map[Permission]struct{}),
			extends: make(map[string]struct{}),
		}
		g.roles[name] = entry
	}
	return entry
}

// closureLocked computes or retrieves the cached closure for name.
// Callers must hold at least the read lock; keeping the cache insert under
// that lock ensures a mutation's Purge can never be overwritten by a
// concurrently computed stale closure.
func (g *Graph) closureLocked(name string) (closure, bool) {
	if _, ok := g.roles[name]; !ok {
		return closure{}, false
	}
	if cl, ok := g.closures.Get(name); ok {
		if g.observer != nil {
			g.observer.Hit()
		}
		return cl, true
	}
	if g.observer != nil {
		g.observer.Miss()
	}

	held := make(map[string]struct{})
	perms := make(map[Permission]struct{})
	queue := []string{name}
	held[name] = struct{}{}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		entry, ok := g.roles[current]
		if !ok {
			continue
		}
		for p := range entry.perms {
			perms[p] = struct{}{}
		}
		for target := range entry.extends {
			if _, seen := held[target]; seen {
				continue
			}
			held[target] = struct{}{}
			queue = append(queue, target)
		}
	}

	cl := closure{held: held, perms: perms}
	g.closures.Add(name, cl)
	return cl, true
}

func copyStringSet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

func copyPermSet(src map[Permission]struct{}) map[Permission]struct{} {
	dst := make(map[Permission]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
