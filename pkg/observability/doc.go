// Package observability provides structured logging and Prometheus metrics.
//
// # Overview
//
// This package centralizes observability infrastructure: JSON logging with
// request-context propagation and the Prometheus counters the authorization
// engine reports.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("roles", n).Info("Role graph ready")
//
// Context-aware logging:
//
//	observability.FromContext(ctx).WithError(err).Error("Request failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.ObserveDecision(false, "permission_denied")
//	metrics.SetRolesRegistered(graph.Len())
//
// Metrics implements rolegraph.CacheObserver, so closure cache hits and
// misses are counted by passing it to rolegraph.WithCacheObserver.
//
// Serve the scrape endpoint:
//
//	router.Handle("/metrics", metrics.Handler())
//
// # Related Packages
//
//   - pkg/authz: Reports decisions through ObserveDecision
//   - pkg/contextkeys: Request ID and logger context storage
package observability
