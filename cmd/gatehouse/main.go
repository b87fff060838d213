package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/hearthcms/gatehouse/pkg/audit"
	"github.com/hearthcms/gatehouse/pkg/auth"
	"github.com/hearthcms/gatehouse/pkg/authz"
	"github.com/hearthcms/gatehouse/pkg/config"
	"github.com/hearthcms/gatehouse/pkg/httputil"
	"github.com/hearthcms/gatehouse/pkg/observability"
	"github.com/hearthcms/gatehouse/pkg/registry"
	"github.com/hearthcms/gatehouse/pkg/rolegraph"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	rolesFile := flag.String("roles-file", "", "YAML or JSON role definition file layered over the defaults (overrides GATEHOUSE_ROLES_FILE)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *rolesFile != "" {
		cfg.Roles.File = *rolesFile
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	promRegistry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(promRegistry)
	}

	graphOpts := []rolegraph.Option{rolegraph.WithCacheSize(cfg.Roles.ClosureCacheSize)}
	if metrics != nil {
		graphOpts = append(graphOpts, rolegraph.WithCacheObserver(metrics))
	}
	graph := rolegraph.NewGraph(graphOpts...)
	catalog := rolegraph.NewCatalog()

	reg := registry.NewRegistry(newRegistryLogger(cfg.Observability.LogLevel))
	reg.Register(registry.Defaults())

	var fileSource *registry.FileSource
	if cfg.Roles.File != "" {
		fileSource = registry.NewFileSource(cfg.Roles.File, newRegistryLogger(cfg.Observability.LogLevel))
		reg.Register(fileSource)
	}

	if err := reg.Apply(graph, catalog); err != nil {
		logger.WithError(err).Error("Role registration failed")
		os.Exit(1)
	}
	if metrics != nil {
		metrics.SetRolesRegistered(graph.Len())
	}
	logger.WithField("roles", graph.Len()).Info("Role graph ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if fileSource != nil && cfg.Roles.Watch {
		go func() {
			if err := fileSource.Watch(ctx, graph, catalog); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("Role file watcher stopped")
			}
		}()
	}

	auditLog, err := openAuditLog(cfg.Observability.AuditDBPath)
	if err != nil {
		logger.WithError(err).Error("Failed to open audit log")
		os.Exit(1)
	}
	defer auditLog.Close()

	gateOpts := []authz.GateOption{authz.WithAudit(auditLog)}
	if metrics != nil {
		gateOpts = append(gateOpts, authz.WithMetrics(metrics))
	}
	gate := authz.NewGate(gateOpts...)
	guard := authz.NewMiddleware(gate)

	router := mux.NewRouter()
	router.Use(httputil.RequestIDMiddleware)
	router.Use(httputil.LoggingMiddleware(logger))
	router.Use(httputil.RecoveryMiddleware(logger))
	router.Use(principalMiddleware(graph))

	api := router.PathPrefix("/api/v1").Subrouter()

	events := api.PathPrefix("/events").Subrouter()
	events.Use(guard.RequirePermissions(rolegraph.PermEventRead))
	events.HandleFunc("", listEventsHandler).Methods(http.MethodGet)

	users := api.PathPrefix("/users").Subrouter()
	users.Use(guard.RequirePermissions(rolegraph.PermUserRead))
	users.HandleFunc("", listUsersHandler).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(guard.RequireRoles(rolegraph.RoleAdministrator))
	admin.HandleFunc("/roles", rolesHandler(graph)).Methods(http.MethodGet)

	api.Handle("/whoami", http.HandlerFunc(whoamiHandler)).Methods(http.MethodGet)

	if metrics != nil {
		router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Gatehouse listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown failed")
	}
}

// openAuditLog returns a SQLite-backed logger when a path is configured,
// otherwise an in-memory one.
func openAuditLog(path string) (audit.Logger, error) {
	if path == "" {
		return audit.NewMemoryLogger(), nil
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return audit.NewDBLogger(db)
}

// newRegistryLogger builds the logrus logger used by the registration layer.
func newRegistryLogger(level observability.LogLevel) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	switch level {
	case observability.DebugLevel:
		l.SetLevel(logrus.DebugLevel)
	case observability.WarnLevel:
		l.SetLevel(logrus.WarnLevel)
	case observability.ErrorLevel:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// principalMiddleware builds the per-request principal from trusted claim
// headers set by an upstream authenticator. Requests without claims pass
// through anonymous; the authorization middleware decides what they may do.
func principalMiddleware(g *rolegraph.Graph) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			role := r.Header.Get("X-User-Role")
			if userID == "" || role == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseInt(userID, 10, 64)
			if err != nil {
				httputil.WriteBadRequest(w, "invalid user id")
				return
			}
			p := auth.FromClaims(auth.Claims{
				UserID: id,
				Role:   role,
				Scope:  r.Header.Get("X-User-Scope"),
			}, g)
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func listEventsHandler(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, map[string]interface{}{"events": []interface{}{}})
}

func listUsersHandler(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, map[string]interface{}{"users": []interface{}{}})
}

// rolesHandler reports the registered role graph for operators.
func rolesHandler(g *rolegraph.Graph) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles := make(map[string]interface{}, g.Len())
		for _, name := range g.Roles() {
			perms := g.EffectivePermissions(name)
			sorted := make([]string, 0, len(perms))
			for p := range perms {
				sorted = append(sorted, string(p))
			}
			sort.Strings(sorted)
			roles[name] = map[string]interface{}{
				"effectivePermissions": sorted,
			}
		}
		_ = httputil.WriteSuccess(w, map[string]interface{}{"roles": roles})
	}
}

// whoamiHandler echoes the caller's resolved principal.
func whoamiHandler(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	if p == nil {
		_ = httputil.WriteSuccess(w, map[string]interface{}{"authenticated": false})
		return
	}
	_ = httputil.WriteSuccess(w, map[string]interface{}{
		"authenticated": true,
		"id":            p.ID,
		"role":          p.PrimaryRole,
		"heldRoles":     p.HeldRoles(),
		"permissions":   p.Permissions(),
	})
}
