package services

import (
	"context"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/paging"
)

// LikeService defines business logic operations for likes
type LikeService interface {
	// ListForPost returns likes of a visible post, oldest first
	ListForPost(ctx context.Context, caller *auth.Caller, postID string, q paging.IndexQuery) ([]models.Like, error)

	// Like likes a visible post once
	Like(ctx context.Context, caller *auth.Caller, postID string) (*models.Like, error)

	// Unlike removes the caller's like; domain.ErrLikeNotFound when there is none
	Unlike(ctx context.Context, caller *auth.Caller, postID string) error
}
