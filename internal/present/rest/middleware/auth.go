package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/present/rest/presenter"
)

var tracer = otel.Tracer("auth")

// Resolver turns a raw credential into an identity.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (domain.Identity, error)
}

type AuthMiddleware struct {
	auth Resolver
}

func NewAuthMiddleware(auth Resolver) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// ProtectedFunc is a handler that only runs for a resolved caller.
type ProtectedFunc func(c echo.Context, me domain.Identity) error

// OptionalFunc receives nil when the request carries no usable credential.
type OptionalFunc func(c echo.Context, me *domain.Identity) error

// Credential reads the raw credential from the cookie, falling back to a
// Bearer authorization header.
func Credential(c echo.Context) string {
	if cookie, err := c.Cookie(domain.CredentialCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("authorization")
	if authHeader == "" {
		return ""
	}
	split := strings.Split(authHeader, " ")
	if len(split) != 2 || split[0] != "Bearer" {
		return ""
	}
	return split[1]
}

// Protected rejects the request before next runs unless it carries a valid
// credential of an existing user.
func (s *AuthMiddleware) Protected(next ProtectedFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.Protected")
		defer span.End()

		me, err := s.auth.Resolve(ctx, Credential(c))
		if err != nil {
			span.RecordError(err)
			return presenter.Error(c, err)
		}

		span.SetAttributes(attribute.String("RequesterId", me.ID))
		return next(c, me)
	}
}

// Optional resolves the caller when possible and otherwise runs next
// anonymously. Store failures still fail the request.
func (s *AuthMiddleware) Optional(next OptionalFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.Optional")
		defer span.End()

		me, err := s.auth.Resolve(ctx, Credential(c))
		if err != nil {
			if domain.KindOf(err).IsAuthRejection() {
				return next(c, nil)
			}
			span.RecordError(err)
			return presenter.Error(c, err)
		}

		span.SetAttributes(attribute.String("RequesterId", me.ID))
		return next(c, &me)
	}
}
