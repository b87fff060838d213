package authz

import (
	"net/http"

	"github.com/hearthcms/gatehouse/pkg/auth"
	"github.com/hearthcms/gatehouse/pkg/httputil"
	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

// Middleware provides HTTP enforcement for declared requirements.
type Middleware struct {
	gate *Gate
}

// NewMiddleware creates authorization middleware backed by the gate.
func NewMiddleware(gate *Gate) *Middleware {
	return &Middleware{gate: gate}
}

// Require wraps an HTTP handler with a requirement check. Anonymous callers
// receive 401; authenticated callers lacking the requirement receive 403.
func (m *Middleware) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := auth.FromContext(r.Context())
			decision := m.gate.AuthorizeContext(r.Context(), principal, req)
			if !decision.Allowed {
				denialResponse(w, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions wraps a handler with an any-of permission check.
func (m *Middleware) RequirePermissions(perms ...rolegraph.Permission) func(http.Handler) http.Handler {
	return m.Require(RequirePermissions(perms...))
}

// RequireRoles wraps a handler with an any-of held-role check.
func (m *Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return m.Require(RequireRoles(roles...))
}

func denialResponse(w http.ResponseWriter, decision Decision) {
	// One generic message for every denial kind; the reason stays in the
	// audit trail, not the response.
	if decision.Reason == ReasonAuthenticationRequired {
		httputil.WriteUnauthorized(w, "access denied")
		return
	}
	httputil.WriteForbidden(w, "access denied")
}
