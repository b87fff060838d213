package authz

import "errors"

// Reason classifies why a decision denied access.
type Reason string

const (
	// ReasonNone marks an allowed decision.
	ReasonNone Reason = ""

	// ReasonAuthenticationRequired: a guarded operation was attempted
	// with no principal.
	ReasonAuthenticationRequired Reason = "authentication_required"

	// ReasonPermissionDenied: an authenticated principal lacks the
	// required permission, role, or ownership.
	ReasonPermissionDenied Reason = "permission_denied"

	// ReasonInvalidRequirement: the declared requirement has a shape the
	// gate does not recognize. Denied rather than allowed so a
	// declaration bug can never fail open.
	ReasonInvalidRequirement Reason = "invalid_requirement"
)

// Typed denial errors. The reasons stay distinguishable via errors.Is; the
// messages are deliberately generic so responses built from them do not
// reveal which permission was missing.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("access denied")
	ErrInvalidRequirement     = errors.New("access denied: invalid requirement")
)

// Decision is the outcome of one authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow is the allowed decision.
var Allow = Decision{Allowed: true}

// Deny constructs a denial with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err maps the decision to its typed denial error; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonAuthenticationRequired:
		return ErrAuthenticationRequired
	case ReasonInvalidRequirement:
		return ErrInvalidRequirement
	default:
		return ErrPermissionDenied
	}
}
