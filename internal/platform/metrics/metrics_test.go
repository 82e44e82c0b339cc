package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/care-profiles/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/care-profiles/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/care-profiles/:id", "200"))
	if got != 1 {
		t.Errorf("expected 1 request counted, got %v", got)
	}
}

func TestMiddleware_RecordsErrorStatus(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/fail", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/fail", "404"))
	if got != 1 {
		t.Errorf("expected 1 not-found request counted, got %v", got)
	}
}

func TestMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/metrics", m.Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `path="/metrics"`) {
		t.Error("expected /metrics requests to be excluded from the counters")
	}
}

func TestHandler_ServesExposition(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/metrics", m.Handler())

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	e.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "alaga_http_requests_total") {
		t.Error("expected request counter in exposition output")
	}
	if !strings.Contains(body, "alaga_http_request_duration_seconds") {
		t.Error("expected duration histogram in exposition output")
	}
}
