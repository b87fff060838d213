package authz

import (
	"fmt"
	"strings"

	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

// Ownership pairs a broad permission with its ownership-scoped variant and
// the owner of the resource under access. The caller passes the owner id
// from the resource being resolved; the gate compares it to the principal's
// id when only the own-scoped permission is held.
type Ownership struct {
	Broad   rolegraph.Permission `json:"broad"`
	Own     rolegraph.Permission `json:"own"`
	OwnerID int64                `json:"owner_id"`
}

// Requirement declares what a guarded operation demands. The zero value
// means no requirement (always allow). Permissions and Roles are any-of
// sets; when several clauses are present the requirement passes if any
// clause passes, matching how field metadata declares alternatives.
type Requirement struct {
	Permissions []rolegraph.Permission `json:"permissions,omitempty"`
	Roles       []string               `json:"roles,omitempty"`
	Ownership   *Ownership             `json:"ownership,omitempty"`
}

// Unrestricted returns the no-requirement value.
func Unrestricted() Requirement {
	return Requirement{}
}

// RequirePermissions declares an any-of permission requirement.
func RequirePermissions(perms ...rolegraph.Permission) Requirement {
	return Requirement{Permissions: perms}
}

// RequireRoles declares an any-of held-role requirement.
func RequireRoles(roles ...string) Requirement {
	return Requirement{Roles: roles}
}

// RequireOwnership declares a broad-or-own requirement: allow if the
// principal holds broad, or holds own and is the resource's owner.
func RequireOwnership(broad, own rolegraph.Permission, ownerID int64) Requirement {
	return Requirement{Ownership: &Ownership{Broad: broad, Own: own, OwnerID: ownerID}}
}

// IsEmpty reports whether the requirement demands nothing.
func (r Requirement) IsEmpty() bool {
	return len(r.Permissions) == 0 && len(r.Roles) == 0 && r.Ownership == nil
}

// wellFormed reports whether the requirement has a shape the gate
// recognizes. Clauses consisting solely of empty identifiers are treated as
// malformed rather than as absent, so a declaration bug denies instead of
// silently allowing.
func (r Requirement) wellFormed() bool {
	if len(r.Permissions) > 0 && !hasNonEmptyPerm(r.Permissions) {
		return false
	}
	if len(r.Roles) > 0 && !hasNonEmptyString(r.Roles) {
		return false
	}
	if r.Ownership != nil && r.Ownership.Broad == "" && r.Ownership.Own == "" {
		return false
	}
	return true
}

// String renders the requirement for audit entries and logs.
func (r Requirement) String() string {
	if r.IsEmpty() {
		return "unrestricted"
	}
	var parts []string
	if len(r.Permissions) > 0 {
		perms := make([]string, len(r.Permissions))
		for i, p := range r.Permissions {
			perms[i] = string(p)
		}
		parts = append(parts, fmt.Sprintf("permissions=[%s]", strings.Join(perms, " ")))
	}
	if len(r.Roles) > 0 {
		parts = append(parts, fmt.Sprintf("roles=[%s]", strings.Join(r.Roles, " ")))
	}
	if r.Ownership != nil {
		parts = append(parts, fmt.Sprintf("ownership={broad=%s own=%s owner=%d}",
			r.Ownership.Broad, r.Ownership.Own, r.Ownership.OwnerID))
	}
	return strings.Join(parts, " ")
}

func hasNonEmptyPerm(perms []rolegraph.Permission) bool {
	for _, p := range perms {
		if p != "" {
			return true
		}
	}
	return false
}

func hasNonEmptyString(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
