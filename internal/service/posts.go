package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/federation"
	"podium/internal/service/content"
)

// Deferrer schedules a federation dispatch without waiting for it.
type Deferrer interface {
	Defer(ctx context.Context, job federation.Job)
}

// postService implements the PostService interface
type postService struct {
	*postLookup
	aspects   repositories.AspectRepository
	deferrer  Deferrer
	sanitizer *content.Sanitizer
	logger    *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(
	posts repositories.PostRepository,
	people repositories.PersonRepository,
	aspects repositories.AspectRepository,
	deferrer Deferrer,
	logger *slog.Logger,
) services.PostService {
	return &postService{
		postLookup: &postLookup{posts: posts, people: people},
		aspects:    aspects,
		deferrer:   deferrer,
		sanitizer:  content.NewSanitizer(),
		logger:     logger,
	}
}

// Find retrieves a visible post
func (s *postService) Find(ctx context.Context, caller *auth.Caller, id string) (*models.Post, error) {
	post, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydratePosts(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Create publishes a status message
func (s *postService) Create(ctx context.Context, caller *auth.Caller, req *services.CreatePostRequest) (*models.Post, error) {
	req.Body = s.sanitizer.Text(req.Body)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Body, validation.Required, validation.RuneLength(1, config.MaxPostLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !req.Public && !caller.Can(auth.ScopePrivateModify) {
		return nil, domain.ErrPrivateScope
	}

	post := &models.Post{
		GUID:      uuid.NewString(),
		AuthorID:  caller.PersonID,
		PostType:  models.PostTypeStatusMessage,
		Text:      req.Body,
		Public:    req.Public,
		Tags:      content.Tags(req.Body),
		CreatedAt: now(),
	}

	if !post.Public {
		audience, err := s.audience(ctx, caller, req.AspectIDs)
		if err != nil {
			return nil, err
		}
		post.Audience = audience
	}

	mentioned, err := s.resolveMentions(ctx, req.Body)
	if err != nil {
		return nil, err
	}
	for _, id := range mentioned {
		// Private posts only mention people who can read them
		if post.Public || post.InAudience(id) {
			post.MentionedIDs = append(post.MentionedIDs, id)
		}
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.hydratePosts(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"guid", post.GUID,
		"author_id", caller.PersonID,
		"public", post.Public,
		"audience", len(post.Audience),
	)

	recipients, err := s.recipientsOf(ctx, post)
	if err != nil {
		s.logger.Warn("resolve federation recipients", "guid", post.GUID, "error", err)
	}
	s.deferrer.Defer(ctx, federation.Job{
		SenderGUID: caller.GUID,
		EntityType: federation.EntityPost,
		EntityGUID: post.GUID,
		Recipients: recipients,
	})

	return post, nil
}

// Destroy deletes one of the caller's posts
func (s *postService) Destroy(ctx context.Context, caller *auth.Caller, id string) error {
	post, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return err
	}

	if post.AuthorID != caller.PersonID {
		return fmt.Errorf("post %s: %w", id, domain.ErrDeleteNotAllowed)
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		"guid", post.GUID,
		"author_id", caller.PersonID,
	)

	recipients, err := s.recipientsOf(ctx, post)
	if err != nil {
		s.logger.Warn("resolve federation recipients", "guid", post.GUID, "error", err)
	}
	s.deferrer.Defer(ctx, federation.Job{
		SenderGUID: caller.GUID,
		EntityType: federation.EntityRetraction,
		EntityGUID: post.GUID,
		Recipients: recipients,
	})

	return nil
}

// audience collects the members of the given aspects, or of all of the
// caller's aspects when none are named. The author is always included.
func (s *postService) audience(ctx context.Context, caller *auth.Caller, aspectIDs []int64) ([]string, error) {
	for _, id := range aspectIDs {
		if _, err := s.aspects.GetByID(ctx, caller.PersonID, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown aspect %d", domain.ErrValidation, id)
			}
			return nil, err
		}
	}

	members, err := s.aspects.MemberIDs(ctx, caller.PersonID, aspectIDs)
	if err != nil {
		return nil, fmt.Errorf("load aspect members: %w", err)
	}
	return unique(append([]string{caller.PersonID}, members...)), nil
}

// resolveMentions maps mentioned handles to person ids, skipping unknown handles.
func (s *postService) resolveMentions(ctx context.Context, text string) ([]string, error) {
	return resolveHandles(ctx, s.people, content.MentionedHandles(text))
}

func resolveHandles(ctx context.Context, people repositories.PersonRepository, handles []string) ([]string, error) {
	var ids []string
	for _, handle := range handles {
		person, err := people.GetByHandle(ctx, handle)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve mention %s: %w", handle, err)
		}
		ids = append(ids, person.ID)
	}
	return ids, nil
}
