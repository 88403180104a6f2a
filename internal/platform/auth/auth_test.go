package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("unit-test-signing-key")

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testKey)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func authedRequest(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "dr.smith",
		Roles:    []string{"doctor"},
	})

	var gotActor string
	var gotRoles []string
	handler := JWTMiddleware(JWTConfig{SigningKey: testKey})(func(c echo.Context) error {
		gotActor = ActorFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	c, _ := authedRequest(t, token)
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotActor != "dr.smith" {
		t.Errorf("expected actor dr.smith, got %q", gotActor)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "doctor" {
		t.Errorf("unexpected roles: %v", gotRoles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	handler := JWTMiddleware(JWTConfig{SigningKey: testKey})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	c, _ := authedRequest(t, "")
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Username: "dr.smith",
	})
	handler := JWTMiddleware(JWTConfig{SigningKey: testKey})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	c, _ := authedRequest(t, token)
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, []string{"nurse"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireRole("doctor", "nurse")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, []string{"admin"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireRole("doctor")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, []string{"receptionist"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireRole("doctor")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestActorFromContext_Default(t *testing.T) {
	if actor := ActorFromContext(context.Background()); actor != "system" {
		t.Errorf("expected system, got %q", actor)
	}
}
