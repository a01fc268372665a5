package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/present/rest/presenter"
)

type likeResponse struct {
	Message string `json:"message"`
	TweetID string `json:"tweet_id"`
	UserID  string `json:"user_id"`
	Liked   bool   `json:"liked"`
	Likes   int64  `json:"likes"`
}

func (h *Handler) handleToggleLike(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	threadID := c.Param("threadId")
	result, err := h.like.Toggle(ctx, me, threadID)
	if err != nil {
		return presenter.Error(c, err)
	}

	message := "Tweet unliked successfully"
	if result.Exists {
		message = "Tweet liked successfully"
	}
	return c.JSON(http.StatusOK, likeResponse{
		Message: message,
		TweetID: threadID,
		UserID:  me.ID,
		Liked:   result.Exists,
		Likes:   result.Count,
	})
}

func (h *Handler) handleToggleFollow(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	var req followRequest
	if err := bindAndValidate(c, &req); err != nil {
		return presenter.Error(c, err)
	}

	result, err := h.follow.Toggle(ctx, me, req.TargetID)
	if err != nil {
		return presenter.Error(c, err)
	}

	message := "Unfollowed successfully"
	if result.Exists {
		message = "Followed successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"code":      http.StatusOK,
		"status":    "success",
		"message":   message,
		"following": result.Exists,
		"followers": result.Count,
	})
}

func (h *Handler) handleMyFollows(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	listing, err := h.follow.List(ctx, me.ID, me.ID, c.QueryParam("type"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", listing)
}

func (h *Handler) handleUserFollows(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	listing, err := h.follow.List(ctx, me.ID, c.Param("userId"), c.QueryParam("type"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", listing)
}

func (h *Handler) handleSearch(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	listing, err := h.search.Search(ctx, me, c.QueryParam("keyword"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", listing)
}

func (h *Handler) handleSuggested(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	listing, err := h.search.Suggested(ctx, me)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", listing)
}

func (h *Handler) handlePublicProfile(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	profile, err := h.search.Profile(ctx, c.Param("username"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", profile)
}
