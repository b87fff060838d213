package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hearthcms/gatehouse/pkg/rolegraph"
)

// RoleFile is the on-disk shape of a data-driven role source: a list of
// (role, permissions, extends) triples in YAML or JSON.
type RoleFile struct {
	Roles []rolegraph.Definition `json:"roles" yaml:"roles"`
}

// FileSource registers roles from a YAML or JSON file. It implements
// Registrar and can optionally watch the file for changes, re-applying it
// so a long-running process picks up role edits without a restart.
type FileSource struct {
	path string
	log  *logrus.Logger
}

// NewFileSource creates a file-backed role source.
func NewFileSource(path string, log *logrus.Logger) *FileSource {
	if log == nil {
		log = logrus.New()
	}
	return &FileSource{path: path, log: log}
}

// Name implements Registrar.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load parses the role file. Format is chosen by extension: .yaml/.yml is
// YAML, everything else JSON.
func (s *FileSource) Load() ([]rolegraph.Definition, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role file: %w", err)
	}

	var file RoleFile
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse role file %s: %w", s.path, err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse role file %s: %w", s.path, err)
		}
	}

	for _, def := range file.Roles {
		if def.Name == "" {
			return nil, fmt.Errorf("role file %s: role with empty name", s.path)
		}
	}
	return file.Roles, nil
}

// RegisterRoles implements Registrar: every permission named by the file
// joins the catalog and every triple is applied to the graph.
func (s *FileSource) RegisterRoles(g *rolegraph.Graph, c *rolegraph.Catalog) error {
	defs, err := s.Load()
	if err != nil {
		return err
	}
	if c != nil {
		for _, def := range defs {
			c.Register(def.Permissions...)
		}
	}
	rolegraph.RegisterDefinitions(g, defs...)
	return nil
}

// Watch re-applies the role file whenever it changes, until ctx is
// cancelled. A file that becomes invalid is logged and skipped; the graph
// keeps its last good state (registration never removes roles, so a
// re-apply only adds). Closure caches are invalidated by the graph's own
// mutation path.
func (s *FileSource) Watch(ctx context.Context, g *rolegraph.Graph, c *rolegraph.Catalog) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and config tools typically replace the
	// file, which drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	s.log.Infof("watching role file %s", s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.RegisterRoles(g, c); err != nil {
				s.log.WithError(err).Warnf("failed to re-apply role file %s", s.path)
				continue
			}
			if errs := g.Validate(c); len(errs) > 0 {
				s.log.Warnf("role file %s re-applied with %d validation errors", s.path, len(errs))
			} else {
				s.log.Infof("role file %s re-applied, %d roles registered", s.path, g.Len())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("role file watcher error")
		}
	}
}
