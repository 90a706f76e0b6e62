package services

import (
	"context"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/paging"
)

// CreateCommentRequest represents a request to comment on a post
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// ReportRequest represents a request to flag an item for moderation
type ReportRequest struct {
	Reason string `json:"reason"`
}

// CommentService defines business logic operations for comments
type CommentService interface {
	// ListForPost returns comments of a visible post within the time window
	ListForPost(ctx context.Context, caller *auth.Caller, postID string, q paging.TimeQuery) ([]models.Comment, error)

	// Create comments on a visible post. Private posts require private:modify.
	Create(ctx context.Context, caller *auth.Caller, postID string, req *CreateCommentRequest) (*models.Comment, error)

	// Destroy deletes a comment of postID. Only the comment's author or the
	// post's author may delete it.
	Destroy(ctx context.Context, caller *auth.Caller, postID, commentID string) error

	// Report flags a comment of postID. Each caller may report a comment once.
	Report(ctx context.Context, caller *auth.Caller, postID, commentID string, req *ReportRequest) error
}
