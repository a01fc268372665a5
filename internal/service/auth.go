package service

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/jwt"
)

var tracer = otel.Tracer("auth")

// UserFinder is the account lookup the resolver needs.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

type AuthService struct {
	codec *jwt.Codec
	users UserFinder
}

func NewAuthService(codec *jwt.Codec, users UserFinder) *AuthService {
	return &AuthService{
		codec: codec,
		users: users,
	}
}

// Resolve turns a raw credential into the caller's identity, reloading the
// account so that deleted users are rejected even with a valid token.
func (s *AuthService) Resolve(ctx context.Context, raw string) (domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Resolve")
	defer span.End()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Identity{}, domain.ErrMissingCredential
	}

	claims, err := s.codec.Verify(raw)
	if err != nil {
		span.RecordError(pkgerrors.Wrap(err, "credential verification failed"))
		return domain.Identity{}, domain.ErrInvalidCredential.WithCause(err)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrSubjectNotFound
		}
		return domain.Identity{}, domain.Dependency(err, "failed to load credential subject")
	}

	span.SetAttributes(attribute.String("RequesterId", user.ID))
	return user.Identity(), nil
}

// Issue signs a credential for user.
func (s *AuthService) Issue(user domain.User) (string, error) {
	token, _, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to sign credential")
	}
	return token, nil
}
