package auth

import "github.com/hearthcms/gatehouse/pkg/rolegraph"

// Claims is the payload handed over by the authentication layer after it has
// verified a credential (e.g. a signed token). This package never parses or
// verifies tokens; it only consumes the already-trusted claim.
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	Scope  string `json:"scope"`
}

// FromClaims builds the request principal from a verified claim and the
// current role graph.
func FromClaims(c Claims, g *rolegraph.Graph) *Principal {
	return NewPrincipal(c.UserID, c.Role, c.Scope, g)
}
