package domain

import (
	"strings"
	"time"
)

// AuthorRef is the resolved author of a post as exposed to readers.
type AuthorRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Post is a blog entry. Author is set once at creation and never changes.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Cover     string    `json:"cover,omitempty"`
	Author    AuthorRef `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAuthoredBy reports whether userID created the post.
func (p *Post) IsAuthoredBy(userID string) bool {
	return userID != "" && p.Author.ID == userID
}

// PostFields holds the mutable fields of a post. An empty Cover keeps the current one.
type PostFields struct {
	Title   string
	Summary string
	Content string
	Cover   string
}

// CoverPathPrefix precedes every stored cover name in Post.Cover.
const CoverPathPrefix = "uploads/"

// CoverObjectName extracts the storage name from a cover path. It rejects
// anything that is not a single plain file name under CoverPathPrefix.
func CoverObjectName(coverPath string) (string, bool) {
	name, ok := strings.CutPrefix(coverPath, CoverPathPrefix)
	if !ok || !IsCoverName(name) {
		return "", false
	}
	return name, true
}

// IsCoverName reports whether name is usable as a storage object name.
func IsCoverName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
