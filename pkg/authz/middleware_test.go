package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hearthcms/gatehouse/pkg/auth"
)

func TestMiddleware_Require(t *testing.T) {
	gate := NewGate()
	m := NewMiddleware(gate)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous caller gets 401", func(t *testing.T) {
		handler := m.RequirePermissions("userRead")(okHandler)

		req := httptest.NewRequest("GET", "/users", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
		if body := strings.TrimSpace(w.Body.String()); body != `{"error":"access denied"}` {
			t.Errorf("unexpected body: %s", body)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
	})

	t.Run("authenticated without permission gets 403", func(t *testing.T) {
		handler := m.RequirePermissions("userCreate")(okHandler)

		p := testPrincipal(t, 7, "contributor")
		req := httptest.NewRequest("POST", "/users", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("authorized caller reaches the handler", func(t *testing.T) {
		handler := m.RequirePermissions("eventCreate")(okHandler)

		p := testPrincipal(t, 7, "contributor")
		req := httptest.NewRequest("POST", "/events", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("role requirement sees inherited roles", func(t *testing.T) {
		handler := m.RequireRoles("contributor")(okHandler)

		p := testPrincipal(t, 7, "editor")
		req := httptest.NewRequest("GET", "/contrib", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unrestricted requirement passes anonymous callers", func(t *testing.T) {
		handler := m.Require(Unrestricted())(okHandler)

		req := httptest.NewRequest("GET", "/public", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}
