package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// coverField is the multipart part carrying the cover image.
const coverField = "file"

type UploadHandler struct {
	covers ports.CoverService
}

func NewUploadHandler(covers ports.CoverService) *UploadHandler {
	return &UploadHandler{covers: covers}
}

// ServeCover streams a stored cover image.
//
// @Summary      Cover image
// @Tags         uploads
// @Produce      image/png
// @Produce      image/jpeg
// @Produce      image/gif
// @Param        name  path  string  true  "Cover file name"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /uploads/{name} [get]
func (h *UploadHandler) ServeCover(c echo.Context) error {
	body, contentType, err := h.covers.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	defer body.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, body)
}

// storeCover persists the optional "file" part of a multipart request and
// returns its cover path, or "" when the request carries no file.
func storeCover(c echo.Context, covers ports.CoverService) (string, error) {
	fh, err := c.FormFile(coverField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return "", domain.ErrPayloadTooLarge
	}
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return covers.Store(c.Request().Context(), ports.CoverUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
}
