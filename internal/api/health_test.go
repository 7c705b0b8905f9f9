package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthHandler_CheckHealth(t *testing.T) {
	h := NewHealthHandler()

	BindServiceHealth(func() bool { return true })
	w := httptest.NewRecorder()
	h.CheckHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"healthy"`) {
		t.Fatalf("unexpected healthy response: %d %s", w.Code, w.Body.String())
	}

	BindServiceHealth(func() bool { return false })
	w = httptest.NewRecorder()
	h.CheckHealth(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"unhealthy"`) {
		t.Fatalf("unexpected unhealthy response: %d %s", w.Code, w.Body.String())
	}
}
