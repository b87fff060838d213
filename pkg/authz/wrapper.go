package authz

import (
	"context"

	"github.com/hearthcms/gatehouse/pkg/auth"
	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

// Resolver is an opaque operation callable supplied by the serving
// framework. The wrapper never inspects or transforms args; it only decides
// whether the call may proceed.
type Resolver func(ctx context.Context, args interface{}) (interface{}, error)

// OwnerFunc extracts the owner id of the resource under access from the
// resolver arguments.
type OwnerFunc func(ctx context.Context, args interface{}) (int64, error)

// WrapResolver guards a resolver with a declared requirement. The principal
// is taken from the request context. On deny the wrapped resolver is never
// invoked (no partial execution, no side effects) and the typed denial
// error is returned; on allow the resolver's result and errors pass through
// untouched.
func (g *Gate) WrapResolver(req Requirement, next Resolver) Resolver {
	return func(ctx context.Context, args interface{}) (interface{}, error) {
		decision := g.AuthorizeContext(ctx, auth.FromContext(ctx), req)
		if !decision.Allowed {
			return nil, decision.Err()
		}
		return next(ctx, args)
	}
}

// WrapResolverOwned guards a resolver whose ownership requirement depends
// on the arguments: ownerOf resolves the resource owner id first, then the
// broad-or-own pair is evaluated against it. A failing ownerOf denies
// rather than allows.
func (g *Gate) WrapResolverOwned(broad, own rolegraph.Permission, ownerOf OwnerFunc, next Resolver) Resolver {
	return func(ctx context.Context, args interface{}) (interface{}, error) {
		ownerID, err := ownerOf(ctx, args)
		if err != nil {
			return nil, ErrPermissionDenied
		}
		decision := g.AuthorizeContext(ctx, auth.FromContext(ctx), RequireOwnership(broad, own, ownerID))
		if !decision.Allowed {
			return nil, decision.Err()
		}
		return next(ctx, args)
	}
}
