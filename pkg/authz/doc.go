// Package authz implements the request-time authorization gate.
//
// # Overview
//
// A guarded operation declares a Requirement: a permission set (any-of), a
// role set (any-of), an ownership pair, or nothing. The Gate evaluates a
// Requirement against an optional principal (nil means anonymous) and
// returns a Decision that is either allow or a typed denial. The gate is
// stateless; every decision is a pure function of its inputs, which keeps
// decisions trivially reproducible in tests and independent of call order.
//
// # Fail-closed policy
//
// The gate never fails open. An anonymous caller is denied any non-empty
// requirement, including malformed ones. A requirement shape the gate does
// not recognize is denied with ReasonInvalidRequirement, never allowed. Only
// an explicitly empty requirement grants access unconditionally.
//
// # Integration
//
// WrapResolver attaches a requirement to an opaque resolver function: on
// deny the resolver is never invoked and the typed denial error is returned;
// on allow the resolver runs unchanged. Middleware does the same for HTTP
// handlers, mapping AuthenticationRequired to 401 and every other denial
// to 403. The three denial reasons stay programmer-distinguishable while the
// user-visible message remains a generic "access denied", so responses do
// not leak which permission was missing.
package authz
