package services

import (
	"context"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/paging"
)

// StreamService assembles the caller's post streams. Every stream only
// contains posts the caller may see.
type StreamService interface {
	// Main combines the caller's posts, their contacts' posts, followed tags and mentions
	Main(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)

	// Aspects returns posts by the caller and the members of the given aspects,
	// or of all the caller's aspects when aspectIDs is empty
	Aspects(ctx context.Context, caller *auth.Caller, aspectIDs []int64, q paging.TimeQuery) ([]models.Post, error)

	FollowedTags(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)

	// Activity returns posts the caller wrote, commented on or liked
	Activity(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)

	Commented(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)
	Mentions(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)
	Liked(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)
}
