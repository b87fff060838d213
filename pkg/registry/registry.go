// Package registry coordinates role and permission registration from the
// application and its plugins, and enforces the post-registration
// validation pass before the graph serves traffic.
package registry

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

// Registrar is implemented by anything that contributes roles and
// permissions: the core application, plugins, and data-driven sources.
// RegisterRoles may be invoked more than once and must be idempotent;
// graph Add/Extend calls already are.
type Registrar interface {
	// Name identifies the registrar in logs and errors
	Name() string

	// RegisterRoles contributes roles to the graph and permissions to
	// the catalog
	RegisterRoles(g *rolegraph.Graph, c *rolegraph.Catalog) error
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc struct {
	RegistrarName string
	Fn            func(g *rolegraph.Graph, c *rolegraph.Catalog) error
}

// Name implements Registrar.
func (r RegistrarFunc) Name() string { return r.RegistrarName }

// RegisterRoles implements Registrar.
func (r RegistrarFunc) RegisterRoles(g *rolegraph.Graph, c *rolegraph.Catalog) error {
	return r.Fn(g, c)
}

// Defaults returns the registrar installing the built-in role hierarchy
// and core permission catalog.
func Defaults() Registrar {
	return RegistrarFunc{
		RegistrarName: "defaults",
		Fn: func(g *rolegraph.Graph, c *rolegraph.Catalog) error {
			rolegraph.RegisterDefaults(g, c)
			return nil
		},
	}
}

// Registry collects registrars and applies them to a graph.
type Registry struct {
	registrars []Registrar
	log        *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
	}
	return &Registry{log: log}
}

// Register adds a registrar. Order does not matter; Apply converges to the
// same graph for any registration order.
func (r *Registry) Register(reg Registrar) {
	r.registrars = append(r.registrars, reg)
}

// Apply runs every registrar against the graph and then validates the
// result. Registrars run in two passes: graph registration is idempotent,
// and the second pass resolves Extend calls whose target role was
// registered by a later registrar in the first pass. Validation errors and
// registrar errors are joined and returned together.
func (r *Registry) Apply(g *rolegraph.Graph, c *rolegraph.Catalog) error {
	var errs []error

	for pass := 1; pass <= 2; pass++ {
		for _, reg := range r.registrars {
			if err := reg.RegisterRoles(g, c); err != nil {
				if pass == 1 {
					// The second pass retries; only its failures count.
					r.log.WithError(err).Debugf("registrar %s failed on first pass", reg.Name())
					continue
				}
				errs = append(errs, fmt.Errorf("registrar %s: %w", reg.Name(), err))
			}
		}
	}

	for _, err := range g.Validate(c) {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	r.log.Infof("registered %d roles from %d registrars", g.Len(), len(r.registrars))
	return nil
}
