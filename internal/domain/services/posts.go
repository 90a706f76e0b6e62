package services

import (
	"context"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/paging"
)

// CreatePostRequest represents a request to publish a status message
type CreatePostRequest struct {
	Body      string  `json:"body"`
	Public    bool    `json:"public"`
	AspectIDs []int64 `json:"aspect_ids"` // Private posts only; empty shares with every aspect
}

// PostService defines business logic operations for posts.
// Post identifiers are GUIDs, or numeric IDs when all digits.
type PostService interface {
	// Find returns a post the caller may see. Invisible posts are reported
	// as domain.ErrPostNotFound, exactly like missing ones.
	Find(ctx context.Context, caller *auth.Caller, id string) (*models.Post, error)

	// Create publishes a status message. Private posts require private:modify.
	Create(ctx context.Context, caller *auth.Caller, req *CreatePostRequest) (*models.Post, error)

	// Destroy deletes one of the caller's posts
	Destroy(ctx context.Context, caller *auth.Caller, id string) error
}

// ReshareService defines business logic operations for reshares
type ReshareService interface {
	// ListForPost returns reshares of a visible post, oldest first
	ListForPost(ctx context.Context, caller *auth.Caller, postID string, q paging.IndexQuery) ([]models.Post, error)

	// Create reshares the absolute root of the given post. Fails with a
	// validation error for own, non-public, already reshared or missing roots.
	Create(ctx context.Context, caller *auth.Caller, postID string) (*models.Post, error)
}
