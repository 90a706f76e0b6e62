package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/federation"
	"podium/internal/paging"
)

// reshareService implements the ReshareService interface
type reshareService struct {
	*postLookup
	deferrer Deferrer
	logger   *slog.Logger
}

// NewReshareService creates a new reshare service
func NewReshareService(
	posts repositories.PostRepository,
	people repositories.PersonRepository,
	deferrer Deferrer,
	logger *slog.Logger,
) services.ReshareService {
	return &reshareService{
		postLookup: &postLookup{posts: posts, people: people},
		deferrer:   deferrer,
		logger:     logger,
	}
}

// ListForPost retrieves reshares of a visible post
func (s *reshareService) ListForPost(ctx context.Context, caller *auth.Caller, postID string, q paging.IndexQuery) ([]models.Post, error) {
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	reshares, err := s.posts.ListReshares(ctx, post.ID, q)
	if err != nil {
		return nil, err
	}
	if err := s.hydratePosts(ctx, postPointers(reshares)...); err != nil {
		return nil, err
	}
	return reshares, nil
}

// Create reshares the absolute root of postID
func (s *reshareService) Create(ctx context.Context, caller *auth.Caller, postID string) (*models.Post, error) {
	target, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	root := target
	if target.RootID != nil {
		root, err = s.posts.GetByID(ctx, *target.RootID)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case root.AuthorID == caller.PersonID:
		return nil, fmt.Errorf("post %s: %w", root.GUID, domain.ErrOwnReshare)
	case !root.Public:
		return nil, fmt.Errorf("post %s: %w", root.GUID, domain.ErrReshareNotPublic)
	}

	if _, err := s.posts.FindReshare(ctx, caller.PersonID, root.ID); err == nil {
		return nil, fmt.Errorf("post %s: %w", root.GUID, domain.ErrAlreadyReshared)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	reshare := &models.Post{
		GUID:      uuid.NewString(),
		AuthorID:  caller.PersonID,
		PostType:  models.PostTypeReshare,
		Public:    true,
		RootID:    &root.ID,
		CreatedAt: now(),
	}

	// Storage enforces one reshare per author and root
	if err := s.posts.Create(ctx, reshare); err != nil {
		return nil, err
	}

	if err := s.hydratePosts(ctx, reshare); err != nil {
		return nil, err
	}

	s.logger.Info("post reshared",
		"guid", reshare.GUID,
		"root_guid", root.GUID,
		"author_id", caller.PersonID,
	)

	s.deferrer.Defer(ctx, federation.Job{
		SenderGUID: caller.GUID,
		EntityType: federation.EntityReshare,
		EntityGUID: reshare.GUID,
	})

	return reshare, nil
}
