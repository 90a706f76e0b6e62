package repositories

import (
	"context"

	"podium/internal/domain/models"
	"podium/internal/paging"
)

// StreamFilter selects posts for a stream. A post matches when it satisfies
// ANY of the set criteria and is visible to the viewer. A filter with no
// criteria matches nothing.
type StreamFilter struct {
	ViewerID      string
	PrivateAccess bool // Viewer may see private posts whose audience includes them

	AuthorIDs   []string
	Tags        []string
	MentionedID string
	CommentedBy string
	LikedBy     string
}

// Empty reports whether no criterion is set.
func (f StreamFilter) Empty() bool {
	return len(f.AuthorIDs) == 0 && len(f.Tags) == 0 &&
		f.MentionedID == "" && f.CommentedBy == "" && f.LikedBy == ""
}

// PostRepository defines data access operations for posts and reshares
type PostRepository interface {
	// Create inserts the post with its audience, tags and mentions
	Create(ctx context.Context, post *models.Post) error

	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByGUID(ctx context.Context, guid string) (*models.Post, error)

	// Delete removes a post with its comments, likes and audience
	Delete(ctx context.Context, id int64) error

	// FindReshare returns the reshare of rootID by authorID
	FindReshare(ctx context.Context, authorID string, rootID int64) (*models.Post, error)

	// ListReshares returns reshares of rootID, oldest first
	ListReshares(ctx context.Context, rootID int64, q paging.IndexQuery) ([]models.Post, error)

	// Stream returns posts matching filter within the time window
	Stream(ctx context.Context, filter StreamFilter, q paging.TimeQuery) ([]models.Post, error)
}
