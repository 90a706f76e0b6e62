package repositories

import "context"

// TagRepository defines data access operations for followed tags
type TagRepository interface {
	Follow(ctx context.Context, personID, tag string) error
	Followed(ctx context.Context, personID string) ([]string, error)
}
