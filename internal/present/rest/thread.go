package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/present/rest/presenter"
	"github.com/circle-app/circle-server/internal/usecase"
)

func (h *Handler) handleListThreads(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	limit, err := queryInt(c, "limit")
	if err != nil {
		return presenter.Error(c, err)
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return presenter.Error(c, err)
	}

	threads, err := h.thread.List(ctx, me.ID, domain.ThreadFilter{Limit: limit, Offset: offset})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", threads)
}

func (h *Handler) handleMyThreads(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	threads, err := h.thread.List(ctx, me.ID, domain.ThreadFilter{AuthorID: me.ID})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", threads)
}

func (h *Handler) handleUserThreads(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	userID := c.Param("userId")
	if userID == "" {
		return presenter.Error(c, domain.Validation("user id is required"))
	}

	threads, err := h.thread.List(ctx, me.ID, domain.ThreadFilter{AuthorID: userID})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", threads)
}

func (h *Handler) handleUsernameThreads(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	threads, err := h.thread.ListByUsername(ctx, me.ID, c.Param("username"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"code":      http.StatusOK,
		"status":    "success",
		"postCount": len(threads),
		"data":      threads,
	})
}

func (h *Handler) handleGetThread(c echo.Context, me *domain.Identity) error {
	ctx := c.Request().Context()

	detail, err := h.thread.Get(ctx, c.Param("id"), me)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, "", detail)
}

func (h *Handler) handleCreateThread(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return presenter.Error(c, err)
	}

	files := &uploads{maxBytes: h.options.MaxUploadBytes}
	defer files.Close()
	image, err := files.get(c, "image")
	if err != nil {
		return presenter.Error(c, err)
	}

	thread, err := h.thread.Create(ctx, me, usecase.PostInput{Content: req.Content, Image: image})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, "Thread created.", thread)
}

func (h *Handler) handleCreateReply(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return presenter.Error(c, err)
	}

	files := &uploads{maxBytes: h.options.MaxUploadBytes}
	defer files.Close()
	image, err := files.get(c, "replyImage")
	if err != nil {
		return presenter.Error(c, err)
	}

	reply, err := h.thread.Reply(ctx, me, c.Param("threadId"), usecase.PostInput{Content: req.Content, Image: image})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, "Reply created.", reply)
}
