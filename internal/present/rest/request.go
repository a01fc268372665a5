package rest

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/usecase"
)

type registerRequest struct {
	FullName string `json:"full_name" form:"full_name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password" validate:"required"`
}

type profileRequest struct {
	FullName *string `json:"full_name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
}

type followRequest struct {
	TargetID string `json:"targetId" form:"targetId" validate:"required"`
}

type postRequest struct {
	Content string `json:"content" form:"content"`
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("malformed request body")
	}
	return c.Validate(req)
}

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// bindProfile reads a partial profile update. Absent fields stay nil.
func bindProfile(c echo.Context) (profileRequest, error) {
	var req profileRequest
	if isJSON(c) {
		if err := c.Bind(&req); err != nil {
			return req, domain.Validation("malformed request body")
		}
		return req, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return req, domain.Validation("malformed form body")
	}
	field := func(name string) *string {
		if vs, ok := params[name]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	req.FullName = field("full_name")
	req.Username = field("username")
	req.Email = field("email")
	req.Bio = field("bio")
	return req, nil
}

// uploads collects optional multipart files. Call the returned closer once
// the use case is done with the bodies.
type uploads struct {
	maxBytes int64
	files    []multipart.File
}

func (u *uploads) get(c echo.Context, field string) (*usecase.Upload, error) {
	if isJSON(c) {
		return nil, nil
	}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Validationf("invalid %s upload", field)
	}
	if u.maxBytes > 0 && header.Size > u.maxBytes {
		return nil, domain.Validationf("%s exceeds %d bytes", field, u.maxBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, domain.Dependency(err, "failed to read upload")
	}
	u.files = append(u.files, file)
	return &usecase.Upload{Filename: header.Filename, Body: file}, nil
}

func (u *uploads) Close() {
	for _, f := range u.files {
		f.Close()
	}
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, domain.Validationf("invalid %s parameter", name)
	}
	return v, nil
}
