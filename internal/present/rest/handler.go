package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/present/rest/middleware"
	"github.com/circle-app/circle-server/internal/present/rest/presenter"
	"github.com/circle-app/circle-server/internal/service"
	"github.com/circle-app/circle-server/internal/usecase"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Production     bool
	CredentialTTL  time.Duration
	MaxUploadBytes int64
}

type Handler struct {
	options Options
	auth    *middleware.AuthMiddleware
	account *usecase.AccountUsecase
	thread  *usecase.ThreadUsecase
	like    *usecase.LikeUsecase
	follow  *usecase.FollowUsecase
	search  *usecase.SearchUsecase
	signal  *service.SignalService
	db      Pinger
}

func NewHandler(
	options Options,
	auth *middleware.AuthMiddleware,
	account *usecase.AccountUsecase,
	thread *usecase.ThreadUsecase,
	like *usecase.LikeUsecase,
	follow *usecase.FollowUsecase,
	search *usecase.SearchUsecase,
	signal *service.SignalService,
	db Pinger,
) *Handler {
	if options.CredentialTTL <= 0 {
		options.CredentialTTL = domain.CredentialMaxAge
	}
	return &Handler{
		options: options,
		auth:    auth,
		account: account,
		thread:  thread,
		like:    like,
		follow:  follow,
		search:  search,
		signal:  signal,
		db:      db,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = newRequestValidator()

	e.GET("/healthz", h.handleHealth)

	api := e.Group("/api/v1")
	api.GET("/realtime", h.handleRealtime)

	auth := api.Group("/auth")
	auth.POST("/register", h.handleRegister)
	auth.POST("/login", h.handleLogin)
	auth.POST("/logout", h.handleLogout)
	auth.GET("/me", h.auth.Protected(h.handleMe))
	auth.GET("/profile", h.auth.Protected(h.handleGetProfile))
	auth.PATCH("/profile", h.auth.Protected(h.handleUpdateProfile))

	thread := api.Group("/thread")
	thread.GET("/threads", h.auth.Protected(h.handleListThreads))
	thread.GET("/threads/me", h.auth.Protected(h.handleMyThreads))
	thread.GET("/threads/user/:userId", h.auth.Protected(h.handleUserThreads))
	thread.GET("/threads/username/:username", h.auth.Protected(h.handleUsernameThreads))
	thread.GET("/threads/:id", h.auth.Optional(h.handleGetThread))
	thread.POST("/threads", h.auth.Protected(h.handleCreateThread))

	api.POST("/reply/:threadId", h.auth.Protected(h.handleCreateReply))
	api.POST("/like/:threadId", h.auth.Protected(h.handleToggleLike))

	follows := api.Group("/follows")
	follows.GET("", h.auth.Protected(h.handleMyFollows))
	follows.GET("/", h.auth.Protected(h.handleMyFollows))
	follows.GET("/:userId", h.auth.Protected(h.handleUserFollows))
	follows.POST("", h.auth.Protected(h.handleToggleFollow))
	follows.POST("/", h.auth.Protected(h.handleToggleFollow))

	search := api.Group("/search")
	search.GET("", h.auth.Protected(h.handleSearch))
	search.GET("/", h.auth.Protected(h.handleSearch))
	search.GET("/suggested", h.auth.Protected(h.handleSuggested))
	search.GET("/profile/:username", h.auth.Protected(h.handlePublicProfile))
}

func (h *Handler) handleHealth(c echo.Context) error {
	if h.db != nil {
		if err := h.db.PingContext(c.Request().Context()); err != nil {
			return presenter.Error(c, domain.Dependency(err, "database unreachable"))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
