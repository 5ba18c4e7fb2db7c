package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type PostHandler struct {
	posts  ports.PostService
	covers ports.CoverService
}

func NewPostHandler(posts ports.PostService, covers ports.CoverService) *PostHandler {
	return &PostHandler{posts: posts, covers: covers}
}

// Create handles POST /posts
//
// @Summary      Create a post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        title    formData  string  true   "Title"
// @Param        summary  formData  string  true   "Summary"
// @Param        content  formData  string  false  "HTML content"
// @Param        file     formData  file    false  "Cover image (jpeg, jpg, png, gif; max 5 MiB)"
// @Success      200  {object}  postResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cover, err := storeCover(c, h.covers)
	if err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), ports.CreatePostInput{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Cover:    cover,
		AuthorID: claims.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Update handles PUT /posts
//
// @Summary      Edit a post
// @Description  Only the author may edit. The cover is replaced only when a new file is sent.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       formData  string  true   "Post ID"
// @Param        title    formData  string  true   "Title"
// @Param        summary  formData  string  true   "Summary"
// @Param        content  formData  string  false  "HTML content"
// @Param        file     formData  file    false  "New cover image"
// @Success      200  {object}  postResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Router       /posts [put]
func (h *PostHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cover, err := storeCover(c, h.covers)
	if err != nil {
		return err
	}

	post, err := h.posts.Update(c.Request().Context(), ports.UpdatePostInput{
		ID:          req.ID,
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Cover:       cover,
		RequesterID: claims.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /posts/:id
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	var requesterID string
	if claims := optionalClaims(c); claims != nil {
		requesterID = claims.ID
	}

	if err := h.posts.Delete(c.Request().Context(), c.Param("id"), requesterID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted"})
}

// List handles GET /posts
//
// @Summary      Latest posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Get handles GET /posts/:id
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		// BodyLimit trips while the body is parsed when no Content-Length was sent.
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return domain.ErrPayloadTooLarge
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}
