package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/circle-app/circle-server/internal/domain"
)

type mockResolver struct {
	identities map[string]domain.Identity
	err        error
	calls      int
}

func (m *mockResolver) Resolve(ctx context.Context, raw string) (domain.Identity, error) {
	m.calls++
	if m.err != nil {
		return domain.Identity{}, m.err
	}
	if raw == "" {
		return domain.Identity{}, domain.ErrMissingCredential
	}
	me, ok := m.identities[raw]
	if !ok {
		return domain.Identity{}, domain.ErrInvalidCredential
	}
	return me, nil
}

func serve(h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/", h)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProtected(t *testing.T) {
	resolver := &mockResolver{identities: map[string]domain.Identity{"good": {ID: "u1"}}}
	m := NewAuthMiddleware(resolver)

	var seen string
	h := m.Protected(func(c echo.Context, me domain.Identity) error {
		seen = me.ID
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: domain.CredentialCookie, Value: "good"})
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
	assert.Equal(t, "u1", seen)

	seen = ""
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
	assert.Equal(t, "u1", seen)

	seen = ""
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
	assert.Empty(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: domain.CredentialCookie, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
	assert.Empty(t, seen)
}

func TestProtectedStoreFailure(t *testing.T) {
	m := NewAuthMiddleware(&mockResolver{err: domain.Dependency(errors.New("down"), "lookup failed")})
	h := m.Protected(func(c echo.Context, me domain.Identity) error {
		t.Fatal("handler must not run")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, http.StatusInternalServerError, serve(h, req).Code)
}

func TestOptional(t *testing.T) {
	resolver := &mockResolver{identities: map[string]domain.Identity{"good": {ID: "u1"}}}
	m := NewAuthMiddleware(resolver)

	var seen *domain.Identity
	h := m.Optional(func(c echo.Context, me *domain.Identity) error {
		seen = me
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "u1", seen.ID)
	}
}
