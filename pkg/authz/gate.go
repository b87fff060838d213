package authz

import (
	"context"

	"github.com/hearthcms/gatehouse/pkg/audit"
	"github.com/hearthcms/gatehouse/pkg/auth"
	"github.com/hearthcms/gatehouse/pkg/contextkeys"
	"github.com/hearthcms/gatehouse/pkg/observability"
)

// Evaluate is the pure decision function: no state, no side effects, the
// same inputs always produce the same decision. A nil principal is an
// anonymous caller and is denied any non-empty requirement.
func Evaluate(p *auth.Principal, req Requirement) Decision {
	if req.IsEmpty() {
		return Allow
	}
	if p == nil {
		return Deny(ReasonAuthenticationRequired)
	}
	if !req.wellFormed() {
		return Deny(ReasonInvalidRequirement)
	}

	if len(req.Permissions) > 0 && p.Can(req.Permissions...) {
		return Allow
	}
	if len(req.Roles) > 0 && p.Has(req.Roles...) {
		return Allow
	}
	if o := req.Ownership; o != nil {
		if o.Broad != "" && p.Can(o.Broad) {
			return Allow
		}
		if o.Own != "" && p.Can(o.Own) && p.ID == o.OwnerID {
			return Allow
		}
	}
	return Deny(ReasonPermissionDenied)
}

// Gate enforces declared requirements and feeds the audit trail and
// decision metrics. It holds no decision state; Evaluate does the work.
type Gate struct {
	auditLog audit.Logger
	metrics  *observability.Metrics
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithAudit records every denial (and permission check) to the audit trail.
func WithAudit(logger audit.Logger) GateOption {
	return func(g *Gate) {
		g.auditLog = logger
	}
}

// WithMetrics records decision counters.
func WithMetrics(m *observability.Metrics) GateOption {
	return func(g *Gate) {
		g.metrics = m
	}
}

// NewGate creates an authorization gate.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize decides whether the principal satisfies the requirement.
func (g *Gate) Authorize(p *auth.Principal, req Requirement) Decision {
	return g.AuthorizeContext(context.Background(), p, req)
}

// AuthorizeContext is Authorize with a request context for the audit trail.
func (g *Gate) AuthorizeContext(ctx context.Context, p *auth.Principal, req Requirement) Decision {
	decision := Evaluate(p, req)
	g.observe(ctx, p, req, decision)
	return decision
}

func (g *Gate) observe(ctx context.Context, p *auth.Principal, req Requirement, decision Decision) {
	if g.metrics != nil {
		g.metrics.ObserveDecision(decision.Allowed, string(decision.Reason))
	}
	if g.auditLog == nil || decision.Allowed {
		return
	}

	event := audit.NewEvent(audit.EventTypeAccessDenied, audit.EventStatusDenied)
	event.Requirement = req.String()
	event.Reason = string(decision.Reason)
	event.RequestID = contextkeys.RequestID(ctx)
	if p != nil {
		id := p.ID
		event.UserID = &id
		event.Role = p.PrimaryRole
	}
	// Audit failures must not turn into authorization failures.
	_ = g.auditLog.Log(ctx, event)
}
