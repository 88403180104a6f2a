package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	ActorKey     contextKey = "actor"
	UserRolesKey contextKey = "user_roles"
)

// Claims are the token claims issued by the hospital identity service.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type JWTConfig struct {
	Issuer     string
	Audience   string
	SigningKey []byte
}

// JWTMiddleware validates a bearer token and publishes the caller's identity
// into the request context. State-mutating services never read the context
// themselves; handlers resolve the actor once and pass it down explicitly.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
			}

			claims := &Claims{}
			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
			if cfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(cfg.Issuer))
			}
			if cfg.Audience != "" {
				opts = append(opts, jwt.WithAudience(cfg.Audience))
			}

			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, opts...)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, ActorKey, claims.Username)
			ctx = context.WithValue(ctx, UserRolesKey, claims.Roles)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// DevAuthMiddleware grants every request admin identity. Development only.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, "dev-user")
			ctx = context.WithValue(ctx, ActorKey, "dev")
			ctx = context.WithValue(ctx, UserRolesKey, []string{"admin"})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole gates a route group to callers holding any of the given roles.
// The admin role always passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// HasRole reports whether the context carries the given role (or admin).
func HasRole(ctx context.Context, role string) bool {
	for _, has := range RolesFromContext(ctx) {
		if has == role || has == "admin" {
			return true
		}
	}
	return false
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

// ActorFromContext returns the authenticated username, or "system" when the
// call did not originate from an authenticated request.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(ActorKey).(string)
	if actor == "" {
		return "system"
	}
	return actor
}

func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}
