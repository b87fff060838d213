package registry

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRegistry_Apply(t *testing.T) {
	t.Run("converges regardless of registrar order", func(t *testing.T) {
		adminPlugin := RegistrarFunc{
			RegistrarName: "admin",
			Fn: func(g *rolegraph.Graph, c *rolegraph.Catalog) error {
				c.Register("userCreate")
				g.Add("administrator", "userCreate")
				// editor is registered by a later registrar; the second
				// pass resolves this edge.
				g.Extend("administrator", "editor")
				return nil
			},
		}
		editorPlugin := RegistrarFunc{
			RegistrarName: "editor",
			Fn: func(g *rolegraph.Graph, c *rolegraph.Catalog) error {
				c.Register("taxRead")
				g.Add("editor", "taxRead")
				return nil
			},
		}

		for name, order := range map[string][]Registrar{
			"admin first":  {adminPlugin, editorPlugin},
			"editor first": {editorPlugin, adminPlugin},
		} {
			t.Run(name, func(t *testing.T) {
				g := rolegraph.NewGraph()
				c := rolegraph.NewCatalog()
				r := NewRegistry(quietLogger())
				for _, reg := range order {
					r.Register(reg)
				}

				if err := r.Apply(g, c); err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
				perms := g.EffectivePermissions("administrator")
				if len(perms) != 2 {
					t.Errorf("expected administrator to inherit taxRead, got %v", perms)
				}
			})
		}
	})

	t.Run("validation failures surface", func(t *testing.T) {
		r := NewRegistry(quietLogger())
		r.Register(RegistrarFunc{
			RegistrarName: "broken",
			Fn: func(g *rolegraph.Graph, c *rolegraph.Catalog) error {
				g.Add("administrator")
				g.Extend("administrator", "ghost")
				return nil
			},
		})

		err := r.Apply(rolegraph.NewGraph(), rolegraph.NewCatalog())
		if err == nil {
			t.Fatal("expected validation error for unresolved extends")
		}
	})

	t.Run("registrar errors surface with the registrar name", func(t *testing.T) {
		wantErr := errors.New("bad manifest")
		r := NewRegistry(quietLogger())
		r.Register(RegistrarFunc{
			RegistrarName: "failing",
			Fn: func(g *rolegraph.Graph, c *rolegraph.Catalog) error {
				return wantErr
			},
		})

		err := r.Apply(rolegraph.NewGraph(), rolegraph.NewCatalog())
		if !errors.Is(err, wantErr) {
			t.Errorf("expected wrapped registrar error, got %v", err)
		}
	})

	t.Run("defaults registrar validates cleanly", func(t *testing.T) {
		r := NewRegistry(quietLogger())
		r.Register(Defaults())

		g := rolegraph.NewGraph()
		c := rolegraph.NewCatalog()
		if err := r.Apply(g, c); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if g.Len() != 7 {
			t.Errorf("expected 7 built-in roles, got %d", g.Len())
		}
	})
}
