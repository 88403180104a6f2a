package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_HonoursInbound(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("expected req-123, got %q", got)
	}
	if rid, _ := c.Get("request_id").(string); rid != "req-123" {
		t.Errorf("expected request_id in context, got %q", rid)
	}
}
