package post

import (
	"context"
	"time"

	"chirp/internal/core/post"
	userPort "chirp/internal/ports/user"
)

// PostRepository is the outbound port for post persistence. Retrieval is
// always newest first with the store id as the tie-break on equal timestamps.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	FindRecent(ctx context.Context, limit int) ([]*post.Post, error)
	FindByAuthorID(ctx context.Context, authorID string, limit int) ([]*post.Post, error)
}

type PostDTO struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithAuthorDTO is the request-scoped join of a post with its author
// profile. Author is always present and always has a username; a post whose
// author cannot be resolved fails the whole retrieval instead.
type PostWithAuthorDTO struct {
	Post   *PostDTO             `json:"post"`
	Author *userPort.ProfileDTO `json:"author"`
}
