package rolegraph

import "testing"

func TestRegisterDefaults(t *testing.T) {
	g := NewGraph()
	c := NewCatalog()
	RegisterDefaults(g, c)

	t.Run("validates cleanly", func(t *testing.T) {
		if errs := g.Validate(c); len(errs) != 0 {
			t.Fatalf("default graph should validate, got %v", errs)
		}
	})

	t.Run("administrator holds the full chain", func(t *testing.T) {
		held := g.HeldRoles(RoleAdministrator)
		for _, name := range []string{
			RoleAdministrator, RoleEditor, RoleContributor, RoleUser,
			RolePreview, RoleRefresh, RoleAPI,
		} {
			if _, ok := held[name]; !ok {
				t.Errorf("administrator missing held role %q", name)
			}
		}
	})

	t.Run("administrator inherits editor permissions", func(t *testing.T) {
		perms := g.EffectivePermissions(RoleAdministrator)
		for _, p := range []Permission{PermUserCreate, PermTaxRead, PermTaxUpdate, PermArticleCreate, PermPreview} {
			if _, ok := perms[p]; !ok {
				t.Errorf("administrator missing %q", p)
			}
		}
	})

	t.Run("contributor gets own-scoped variants only", func(t *testing.T) {
		perms := g.EffectivePermissions(RoleContributor)
		if _, ok := perms[PermEventUpdateOwn]; !ok {
			t.Error("contributor should hold eventUpdateOwn")
		}
		if _, ok := perms[PermEventUpdate]; ok {
			t.Error("contributor must not hold the broad eventUpdate")
		}
	})

	t.Run("idempotent re-registration", func(t *testing.T) {
		before := len(g.EffectivePermissions(RoleAdministrator))
		RegisterDefaults(g, c)
		after := len(g.EffectivePermissions(RoleAdministrator))
		if before != after {
			t.Errorf("re-registration changed the graph: %d -> %d", before, after)
		}
		if g.Len() != 7 {
			t.Errorf("expected 7 roles, got %d", g.Len())
		}
	})
}
