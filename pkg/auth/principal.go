package auth

import (
	"context"
	"sort"

	"github.com/hearthcms/gatehouse/pkg/contextkeys"
	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

// Principal is a resolved, authenticated actor: identity, primary role, and
// the role/permission closure materialized from the graph at construction
// time. It is never mutated after construction.
type Principal struct {
	ID          int64
	PrimaryRole string
	Scope       string

	heldRoles   map[string]struct{}
	permissions map[rolegraph.Permission]struct{}
}

// NewPrincipal resolves primaryRole against the graph and snapshots the held
// role set and effective permission set. A primary role unknown to the graph
// produces a principal holding only that role name and no permissions.
func NewPrincipal(id int64, primaryRole, scope string, g *rolegraph.Graph) *Principal {
	held := g.HeldRoles(primaryRole)
	if len(held) == 0 {
		held = map[string]struct{}{primaryRole: {}}
	}
	return &Principal{
		ID:          id,
		PrimaryRole: primaryRole,
		Scope:       scope,
		heldRoles:   held,
		permissions: g.EffectivePermissions(primaryRole),
	}
}

// Is reports whether name is exactly the principal's primary role. This is
// intentionally NOT a held-role membership test; use Has for
// inheritance-aware checks.
func (p *Principal) Is(name string) bool {
	return p.PrimaryRole == name
}

// Has reports whether the principal holds any of the given roles, directly
// or through inheritance.
func (p *Principal) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := p.heldRoles[name]; ok {
			return true
		}
	}
	return false
}

// Can reports whether the principal holds any of the given permissions.
func (p *Principal) Can(perms ...rolegraph.Permission) bool {
	for _, perm := range perms {
		if _, ok := p.permissions[perm]; ok {
			return true
		}
	}
	return false
}

// HeldRoles returns the principal's held role names, sorted.
func (p *Principal) HeldRoles() []string {
	names := make([]string, 0, len(p.heldRoles))
	for name := range p.heldRoles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Permissions returns the principal's effective permissions, sorted.
func (p *Principal) Permissions() []rolegraph.Permission {
	perms := make([]rolegraph.Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// WithPrincipal stores the principal in the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return contextkeys.WithPrincipal(ctx, p)
}

// FromContext extracts the principal from the context. A missing or
// mistyped value yields nil, which the gate treats as an anonymous caller.
func FromContext(ctx context.Context) *Principal {
	v := ctx.Value(contextkeys.PrincipalKey)
	if v == nil {
		return nil
	}
	p, ok := v.(*Principal)
	if !ok {
		return nil
	}
	return p
}
