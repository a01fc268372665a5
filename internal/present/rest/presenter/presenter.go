package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
)

type response struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, response{
		Code:    http.StatusOK,
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, response{
		Code:    http.StatusCreated,
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

var statusByKind = map[domain.Kind]int{
	domain.KindMissingCredential:  http.StatusUnauthorized,
	domain.KindInvalidCredential:  http.StatusUnauthorized,
	domain.KindSubjectNotFound:    http.StatusUnauthorized,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindConflict:           http.StatusConflict,
	domain.KindRateLimited:        http.StatusTooManyRequests,
	domain.KindDependency:         http.StatusInternalServerError,
}

// Status is the HTTP status err is rendered with.
func Status(err error) int {
	if status, ok := statusByKind[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error renders err as a classified failure. Dependency failures never leak
// their cause to the client.
func Error(c echo.Context, err error) error {
	kind := domain.KindOf(err)
	status := Status(err)

	body := errorResponse{
		Code:    status,
		Status:  "error",
		Kind:    kind,
		Message: err.Error(),
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		body.Message = derr.Message
		body.Details = derr.Details
	}

	switch kind {
	case domain.KindSubjectNotFound:
		// indistinguishable from a forged token
		body.Kind = domain.KindInvalidCredential
		body.Message = domain.ErrInvalidCredential.Message
	case domain.KindDependency:
		body.Message = "internal server error"
		slog.ErrorContext(
			c.Request().Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("module", "rest"),
		)
	default:
		slog.DebugContext(
			c.Request().Context(), "request rejected",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
			slog.String("module", "rest"),
		)
	}

	return c.JSON(status, body)
}
