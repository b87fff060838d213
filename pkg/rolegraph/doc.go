// Package rolegraph implements the role and permission model for the Gatehouse
// authorization engine.
//
// # Overview
//
// The model is deliberately small: a Permission is an opaque string capability
// (e.g. "userRead", "eventUpdateOwn"), a role is a named bundle of directly
// granted permissions plus "extends" edges to other roles it inherits from,
// and a Graph is the process-wide collection of roles.
//
// The Graph answers three closure queries:
//
//	HeldRoles(name)            - name plus every role reachable over extends edges
//	OwnPermissions(name)       - permissions granted directly to the role
//	EffectivePermissions(name) - union of own permissions across HeldRoles(name)
//
// # Registration
//
// Roles are registered at process start via Add and Extend, typically by the
// application itself plus any number of plugins. Registration is idempotent
// and commutative: re-adding a role merges its permission set, re-adding an
// edge is a no-op, and the final graph is the same regardless of call order,
// provided every referenced role name is eventually registered.
//
// Extend silently ignores edges to role names that are not yet known. This
// tolerates plugins registering in arbitrary order, at the cost of losing an
// edge whose target never shows up. Run Validate after registration and
// before serving traffic to surface edges that never resolved, cyclic
// extends chains, and permissions outside the Catalog.
//
// # Failure semantics
//
// No query fails for an unknown role name; unknown names degrade to empty
// sets. Enforcement (deny by default) lives in the authz package, which treats
// an empty permission set as no access.
//
// # Concurrency
//
// All Graph methods are safe for concurrent use. Closures are computed
// lazily and cached; every mutation purges the cache, so a query never
// observes a stale closure after registration has changed the graph.
package rolegraph
