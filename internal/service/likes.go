package service

import (
	"context"
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

// likeService implements the LikeService interface
type likeService struct {
	*postLookup
	likes    repositories.LikeRepository
	deferrer Deferrer
	logger   *slog.Logger
}

// NewLikeService creates a new like service
func NewLikeService(
	posts repositories.PostRepository,
	people repositories.PersonRepository,
	likes repositories.LikeRepository,
	deferrer Deferrer,
	logger *slog.Logger,
) services.LikeService {
	return &likeService{
		postLookup: &postLookup{posts: posts, people: people},
		likes:      likes,
		deferrer:   deferrer,
		logger:     logger,
	}
}

// ListForPost retrieves likes of a visible post
func (s *likeService) ListForPost(ctx context.Context, caller *auth.Caller, postID string, q paging.IndexQuery) ([]models.Like, error) {
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	likes, err := s.likes.ListForPost(ctx, post.ID, q)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.AuthorID)
	}
	people, err := s.peopleByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range likes {
		if author, ok := people[likes[i].AuthorID]; ok {
			likes[i].Author = &author
		}
	}
	return likes, nil
}

// Like likes a visible post
func (s *likeService) Like(ctx context.Context, caller *auth.Caller, postID string) (*models.Like, error) {
	post, err := s.findInteractable(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{
		GUID:      uuid.NewString(),
		PostID:    post.ID,
		AuthorID:  caller.PersonID,
		CreatedAt: now(),
	}

	// Storage uniqueness turns a second like into domain.ErrLikeExists
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}

	s.logger.Info("post liked",
		"post_guid", post.GUID,
		"author_id", caller.PersonID,
	)

	s.deferLike(ctx, caller, post, federation.EntityLike, like.GUID)
	return like, nil
}

// Unlike removes the caller's like
func (s *likeService) Unlike(ctx context.Context, caller *auth.Caller, postID string) error {
	post, err := s.findInteractable(ctx, caller, postID)
	if err != nil {
		return err
	}

	like, err := s.likes.Delete(ctx, post.ID, caller.PersonID)
	if err != nil {
		return err
	}

	s.logger.Info("post unliked",
		"post_guid", post.GUID,
		"author_id", caller.PersonID,
	)

	s.deferLike(ctx, caller, post, federation.EntityRetraction, like.GUID)
	return nil
}

// findInteractable finds a visible post the caller may interact with.
// Private posts without private:modify read as missing.
func (s *likeService) findInteractable(ctx context.Context, caller *auth.Caller, postID string) (*models.Post, error) {
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}
	if !CanInteract(caller, post) {
		return nil, fmt.Errorf("post %s: %w", postID, domain.ErrPostNotFound)
	}
	return post, nil
}

func (s *likeService) deferLike(ctx context.Context, caller *auth.Caller, post *models.Post, entityType, guid string) {
	recipients, err := s.recipientsOf(ctx, post)
	if err != nil {
		s.logger.Warn("resolve federation recipients", "guid", guid, "error", err)
	}
	s.deferrer.Defer(ctx, federation.Job{
		SenderGUID: caller.GUID,
		EntityType: entityType,
		EntityGUID: guid,
		Recipients: recipients,
	})
}
