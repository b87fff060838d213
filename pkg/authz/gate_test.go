package authz

import (
	"errors"
	"testing"

	"github.com/hearthcms/gatehouse/pkg/audit"
	"github.com/hearthcms/gatehouse/pkg/auth"
	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

func testPrincipal(t *testing.T, id int64, primaryRole string) *auth.Principal {
	t.Helper()
	g := rolegraph.NewGraph()
	g.Add("contributor", "eventCreate", "eventUpdateOwn")
	g.Add("editor", "eventUpdate", "taxRead")
	g.Extend("editor", "contributor")
	return auth.NewPrincipal(id, primaryRole, "admin", g)
}

func TestEvaluate_Anonymous(t *testing.T) {
	// Every non-empty requirement shape must deny an anonymous caller.
	requirements := map[string]Requirement{
		"permissions":       RequirePermissions("anything"),
		"roles":             RequireRoles("administrator"),
		"ownership":         RequireOwnership("eventUpdate", "eventUpdateOwn", 7),
		"empty-string perm": RequirePermissions(""),
		"empty-string role": RequireRoles(""),
		"malformed ownership": {
			Ownership: &Ownership{OwnerID: 7},
		},
	}
	for name, req := range requirements {
		t.Run(name, func(t *testing.T) {
			decision := Evaluate(nil, req)
			if decision.Allowed {
				t.Fatal("anonymous caller must be denied")
			}
			if decision.Reason != ReasonAuthenticationRequired {
				t.Errorf("expected authentication_required, got %q", decision.Reason)
			}
		})
	}

	t.Run("no requirement allows anonymous", func(t *testing.T) {
		if !Evaluate(nil, Unrestricted()).Allowed {
			t.Error("empty requirement must allow")
		}
	})
}

func TestEvaluate_Permissions(t *testing.T) {
	p := testPrincipal(t, 7, "contributor")

	t.Run("held permission allows", func(t *testing.T) {
		if !Evaluate(p, RequirePermissions("eventCreate")).Allowed {
			t.Error("expected allow")
		}
	})

	t.Run("any-of semantics", func(t *testing.T) {
		if !Evaluate(p, RequirePermissions("userDelete", "eventCreate")).Allowed {
			t.Error("expected allow when any permission is held")
		}
	})

	t.Run("missing permission denies", func(t *testing.T) {
		decision := Evaluate(p, RequirePermissions("taxRead"))
		if decision.Allowed {
			t.Fatal("expected deny")
		}
		if decision.Reason != ReasonPermissionDenied {
			t.Errorf("expected permission_denied, got %q", decision.Reason)
		}
	})
}

func TestEvaluate_Roles(t *testing.T) {
	p := testPrincipal(t, 7, "editor")

	t.Run("inherited role allows", func(t *testing.T) {
		if !Evaluate(p, RequireRoles("contributor")).Allowed {
			t.Error("role requirement is inheritance-aware")
		}
	})

	t.Run("unheld role denies", func(t *testing.T) {
		if Evaluate(p, RequireRoles("administrator")).Allowed {
			t.Error("expected deny")
		}
	})
}

func TestEvaluate_Ownership(t *testing.T) {
	// Contributor: can("eventUpdate") == false, can("eventUpdateOwn") == true.
	p := testPrincipal(t, 7, "contributor")

	t.Run("own permission and matching owner allows", func(t *testing.T) {
		if !Evaluate(p, RequireOwnership("eventUpdate", "eventUpdateOwn", 7)).Allowed {
			t.Error("expected allow for own resource")
		}
	})

	t.Run("own permission and different owner denies", func(t *testing.T) {
		decision := Evaluate(p, RequireOwnership("eventUpdate", "eventUpdateOwn", 9))
		if decision.Allowed {
			t.Fatal("expected deny for foreign resource")
		}
		if decision.Reason != ReasonPermissionDenied {
			t.Errorf("expected permission_denied, got %q", decision.Reason)
		}
	})

	t.Run("broad permission ignores ownership", func(t *testing.T) {
		editor := testPrincipal(t, 3, "editor")
		if !Evaluate(editor, RequireOwnership("eventUpdate", "eventUpdateOwn", 9)).Allowed {
			t.Error("broad permission should allow regardless of owner")
		}
	})

	t.Run("neither permission denies", func(t *testing.T) {
		stranger := testPrincipal(t, 7, "unknownRole")
		if Evaluate(stranger, RequireOwnership("eventUpdate", "eventUpdateOwn", 7)).Allowed {
			t.Error("owner id alone must not grant access")
		}
	})
}

func TestEvaluate_InvalidRequirement(t *testing.T) {
	p := testPrincipal(t, 7, "editor")

	shapes := map[string]Requirement{
		"only empty permission strings": RequirePermissions("", ""),
		"only empty role strings":       RequireRoles(""),
		"ownership with no permissions": {Ownership: &Ownership{OwnerID: 7}},
	}
	for name, req := range shapes {
		t.Run(name, func(t *testing.T) {
			decision := Evaluate(p, req)
			if decision.Allowed {
				t.Fatal("malformed requirement must never fail open")
			}
			if decision.Reason != ReasonInvalidRequirement {
				t.Errorf("expected invalid_requirement, got %q", decision.Reason)
			}
		})
	}
}

func TestEvaluate_MixedClauses(t *testing.T) {
	p := testPrincipal(t, 7, "contributor")

	t.Run("passes via role clause when permission clause fails", func(t *testing.T) {
		req := Requirement{
			Permissions: []rolegraph.Permission{"userDelete"},
			Roles:       []string{"contributor"},
		}
		if !Evaluate(p, req).Allowed {
			t.Error("any clause passing should allow")
		}
	})

	t.Run("denies when every clause fails", func(t *testing.T) {
		req := Requirement{
			Permissions: []rolegraph.Permission{"userDelete"},
			Roles:       []string{"administrator"},
		}
		if Evaluate(p, req).Allowed {
			t.Error("expected deny")
		}
	})
}

func TestDecision_Err(t *testing.T) {
	cases := map[Reason]error{
		ReasonAuthenticationRequired: ErrAuthenticationRequired,
		ReasonPermissionDenied:       ErrPermissionDenied,
		ReasonInvalidRequirement:     ErrInvalidRequirement,
	}
	for reason, want := range cases {
		if err := Deny(reason).Err(); !errors.Is(err, want) {
			t.Errorf("reason %q: got %v, want %v", reason, err, want)
		}
	}
	if Allow.Err() != nil {
		t.Error("allowed decision must have nil error")
	}
}

func TestGate_Audit(t *testing.T) {
	log := audit.NewMemoryLogger()
	gate := NewGate(WithAudit(log))

	t.Run("denial is recorded", func(t *testing.T) {
		p := testPrincipal(t, 7, "contributor")
		gate.Authorize(p, RequirePermissions("userDelete"))

		events := log.Events()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		event := events[0]
		if event.Type != audit.EventTypeAccessDenied {
			t.Errorf("unexpected type %q", event.Type)
		}
		if event.UserID == nil || *event.UserID != 7 {
			t.Errorf("unexpected user id %v", event.UserID)
		}
		if event.Role != "contributor" {
			t.Errorf("unexpected role %q", event.Role)
		}
		if event.Requirement != "permissions=[userDelete]" {
			t.Errorf("unexpected requirement %q", event.Requirement)
		}
	})

	t.Run("anonymous denial has no user id", func(t *testing.T) {
		gate.Authorize(nil, RequireRoles("administrator"))
		events := log.Events()
		last := events[len(events)-1]
		if last.UserID != nil {
			t.Error("anonymous event should not carry a user id")
		}
		if last.Reason != string(ReasonAuthenticationRequired) {
			t.Errorf("unexpected reason %q", last.Reason)
		}
	})

	t.Run("allow is not recorded", func(t *testing.T) {
		before := len(log.Events())
		p := testPrincipal(t, 7, "contributor")
		gate.Authorize(p, RequirePermissions("eventCreate"))
		if len(log.Events()) != before {
			t.Error("allowed decisions must not hit the audit trail")
		}
	})
}

func TestRequirement_String(t *testing.T) {
	if got := Unrestricted().String(); got != "unrestricted" {
		t.Errorf("unexpected %q", got)
	}
	req := Requirement{
		Permissions: []rolegraph.Permission{"a", "b"},
		Roles:       []string{"editor"},
		Ownership:   &Ownership{Broad: "x", Own: "xOwn", OwnerID: 9},
	}
	want := "permissions=[a b] roles=[editor] ownership={broad=x own=xOwn owner=9}"
	if got := req.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
