package repositories

import (
	"context"

	"podium/internal/domain/models"
	"podium/internal/paging"
)

// CommentRepository defines data access operations for comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByGUID(ctx context.Context, guid string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error

	// ListForPost returns comments on postID within the time window
	ListForPost(ctx context.Context, postID int64, q paging.TimeQuery) ([]models.Comment, error)
}
