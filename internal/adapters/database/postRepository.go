package database

import (
	"context"
	"errors"

	"chirp/internal/config"
	"chirp/internal/core/apperr"
	"chirp/internal/core/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase implements the PostRepository port on gorm.
type PostRepositoryDatabase struct{}

func NewPostRepositoryDatabase() *PostRepositoryDatabase {
	return &PostRepositoryDatabase{}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := config.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := config.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "post not found")
		}
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindRecent(ctx context.Context, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	if err := config.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByAuthorID(ctx context.Context, authorID string, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	if err := config.DB.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
