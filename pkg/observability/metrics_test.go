package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	t.Run("creates and registers all metrics", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		metrics := NewMetrics(registry)

		if metrics == nil {
			t.Fatal("NewMetrics returned nil")
		}
		if metrics.AuthzDecisionsTotal == nil {
			t.Error("AuthzDecisionsTotal is nil")
		}
		if metrics.ClosureCacheHitsTotal == nil {
			t.Error("ClosureCacheHitsTotal is nil")
		}
		if metrics.ClosureCacheMissesTotal == nil {
			t.Error("ClosureCacheMissesTotal is nil")
		}
		if metrics.RolesRegistered == nil {
			t.Error("RolesRegistered is nil")
		}
	})
}

func TestMetrics_ObserveDecision(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.ObserveDecision(true, "")
	metrics.ObserveDecision(false, "permission_denied")
	metrics.ObserveDecision(false, "permission_denied")

	allow := testutil.ToFloat64(metrics.AuthzDecisionsTotal.WithLabelValues("allow", ""))
	if allow != 1 {
		t.Errorf("expected 1 allow, got %v", allow)
	}
	deny := testutil.ToFloat64(metrics.AuthzDecisionsTotal.WithLabelValues("deny", "permission_denied"))
	if deny != 2 {
		t.Errorf("expected 2 denies, got %v", deny)
	}
}

func TestMetrics_CacheObserver(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.Hit()
	metrics.Hit()
	metrics.Miss()
	metrics.SetRolesRegistered(7)

	if got := testutil.ToFloat64(metrics.ClosureCacheHitsTotal); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ClosureCacheMissesTotal); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.RolesRegistered); got != 7 {
		t.Errorf("expected 7 roles, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	metrics.ObserveDecision(false, "authentication_required")

	server := httptest.NewServer(metrics.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "gatehouse_authz_decisions_total") {
		t.Error("expected decision counter in scrape output")
	}
}
