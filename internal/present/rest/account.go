package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/present/rest/presenter"
	"github.com/circle-app/circle-server/internal/usecase"
)

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return presenter.Error(c, err)
	}

	files := &uploads{maxBytes: h.options.MaxUploadBytes}
	defer files.Close()
	image, err := files.get(c, "profileImage")
	if err != nil {
		return presenter.Error(c, err)
	}

	session, err := h.account.Register(ctx, usecase.RegisterInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		ProfileImage: image,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	h.setCredentialCookie(c, session.Token)
	return presenter.Created(c, "Registration successful.", echo.Map{
		"user_id":       session.User.ID,
		"username":      session.User.Username,
		"name":          session.User.FullName,
		"email":         session.User.Email,
		"photo_profile": session.User.PhotoProfile,
		"token":         session.Token,
	})
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return presenter.Error(c, err)
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	session, err := h.account.Login(ctx, identifier, req.Password, c.RealIP())
	if err != nil {
		return presenter.Error(c, err)
	}

	h.setCredentialCookie(c, session.Token)
	return presenter.OK(c, "Login successful.", echo.Map{
		"user_id":  session.User.ID,
		"username": session.User.Username,
		"name":     session.User.FullName,
		"email":    session.User.Email,
		"avatar":   session.User.PhotoProfile,
		"token":    session.Token,
	})
}

func (h *Handler) handleLogout(c echo.Context) error {
	h.clearCredentialCookie(c)
	return presenter.OK(c, "Logout successful.", nil)
}

func (h *Handler) handleMe(c echo.Context, me domain.Identity) error {
	return presenter.OK(c, "", me)
}

func (h *Handler) handleGetProfile(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	user, threads, err := h.account.Profile(ctx, me)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, "", echo.Map{
		"id":              user.ID,
		"email":           user.Email,
		"username":        user.Username,
		"name":            user.FullName,
		"bio":             user.Bio,
		"profile_picture": user.PhotoProfile,
		"backgroundPhoto": user.BackgroundPhoto,
		"created_at":      user.CreatedAt,
		"threads":         threads,
	})
}

func (h *Handler) handleUpdateProfile(c echo.Context, me domain.Identity) error {
	ctx := c.Request().Context()

	req, err := bindProfile(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	files := &uploads{maxBytes: h.options.MaxUploadBytes}
	defer files.Close()
	photo, err := files.get(c, "profileImage")
	if err != nil {
		return presenter.Error(c, err)
	}
	background, err := files.get(c, "backgroundPhoto")
	if err != nil {
		return presenter.Error(c, err)
	}

	user, err := h.account.UpdateProfile(ctx, me, usecase.ProfileInput{
		FullName:        req.FullName,
		Username:        req.Username,
		Email:           req.Email,
		Bio:             req.Bio,
		ProfileImage:    photo,
		BackgroundPhoto: background,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, "Profile updated.", user)
}
