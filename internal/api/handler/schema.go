package handler

import (
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type userResponse struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type claimsResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// --- Posts ---

// createPostRequest is bound from multipart form fields; the cover arrives
// separately as the "file" part.
type createPostRequest struct {
	Title   string `form:"title"   validate:"required"`
	Summary string `form:"summary" validate:"required"`
	Content string `form:"content"`
}

type updatePostRequest struct {
	ID      string `form:"id"      validate:"required"`
	Title   string `form:"title"   validate:"required"`
	Summary string `form:"summary" validate:"required"`
	Content string `form:"content"`
}

type authorResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type postResponse struct {
	ID        string         `json:"_id"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Content   string         `json:"content"`
	Cover     string         `json:"cover,omitempty"`
	Author    authorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toClaimsResponse(c *domain.Claims) claimsResponse {
	return claimsResponse{
		ID:        c.ID,
		Username:  c.Username,
		IssuedAt:  c.IssuedAt.Unix(),
		ExpiresAt: c.ExpiresAt.Unix(),
	}
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:      p.ID,
		Title:   p.Title,
		Summary: p.Summary,
		Content: p.Content,
		Cover:   p.Cover,
		Author: authorResponse{
			ID:       p.Author.ID,
			Username: p.Author.Username,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
