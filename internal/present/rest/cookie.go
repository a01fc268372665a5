package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
)

func (h *Handler) setCredentialCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     domain.CredentialCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.options.Production,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.options.CredentialTTL / time.Second),
	})
}

func (h *Handler) clearCredentialCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     domain.CredentialCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.options.Production,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
