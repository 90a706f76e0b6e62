package repositories

import (
	"context"

	"podium/internal/domain/models"
	"podium/internal/paging"
)

// LikeRepository defines data access operations for likes
type LikeRepository interface {
	// Create inserts a like. A second like of the same post by the same
	// author fails with domain.ErrLikeExists.
	Create(ctx context.Context, like *models.Like) error

	// Delete removes authorID's like of postID and returns it.
	// Fails with domain.ErrLikeNotFound when there is none.
	Delete(ctx context.Context, postID int64, authorID string) (*models.Like, error)

	// ListForPost returns likes of postID, oldest first
	ListForPost(ctx context.Context, postID int64, q paging.IndexQuery) ([]models.Like, error)
}
