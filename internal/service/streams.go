package service

import (
	"context"
	"fmt"
	"log/slog"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/paging"
)

// streamService implements the StreamService interface
type streamService struct {
	*postLookup
	aspects repositories.AspectRepository
	tags    repositories.TagRepository
	logger  *slog.Logger
}

// NewStreamService creates a new stream service
func NewStreamService(
	posts repositories.PostRepository,
	people repositories.PersonRepository,
	aspects repositories.AspectRepository,
	tags repositories.TagRepository,
	logger *slog.Logger,
) services.StreamService {
	return &streamService{
		postLookup: &postLookup{posts: posts, people: people},
		aspects:    aspects,
		tags:       tags,
		logger:     logger,
	}
}

// Main combines the caller's posts, their contacts' posts, followed tags and mentions
func (s *streamService) Main(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
	contacts, err := s.aspects.MemberIDs(ctx, caller.PersonID, nil)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	tags, err := s.tags.Followed(ctx, caller.PersonID)
	if err != nil {
		return nil, fmt.Errorf("load followed tags: %w", err)
	}

	filter := s.filter(caller)
	filter.AuthorIDs = append([]string{caller.PersonID}, contacts...)
	filter.Tags = tags
	filter.MentionedID = caller.PersonID
	return s.stream(ctx, caller, filter, q)
}

// Aspects returns posts by the caller and the members of the given aspects
func (s *streamService) Aspects(ctx context.Context, caller *auth.Caller, aspectIDs []int64, q paging.TimeQuery) ([]models.Post, error) {
	members, err := s.aspects.MemberIDs(ctx, caller.PersonID, aspectIDs)
	if err != nil {
		return nil, fmt.Errorf("load aspect members: %w", err)
	}

	filter := s.filter(caller)
	filter.AuthorIDs = append([]string{caller.PersonID}, members...)
	return s.stream(ctx, caller, filter, q)
}

// FollowedTags returns posts carrying any tag the caller follows
func (s *streamService) FollowedTags(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
	tags, err := s.tags.Followed(ctx, caller.PersonID)
	if err != nil {
		return nil, fmt.Errorf("load followed tags: %w", err)
	}

	filter := s.filter(caller)
	filter.Tags = tags
	return s.stream(ctx, caller, filter, q)
}

// Activity returns posts the caller wrote, commented on or liked
func (s *streamService) Activity(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
	filter := s.filter(caller)
	filter.AuthorIDs = []string{caller.PersonID}
	filter.CommentedBy = caller.PersonID
	filter.LikedBy = caller.PersonID
	return s.stream(ctx, caller, filter, q)
}

func (s *streamService) Commented(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
	filter := s.filter(caller)
	filter.CommentedBy = caller.PersonID
	return s.stream(ctx, caller, filter, q)
}

func (s *streamService) Mentions(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
	filter := s.filter(caller)
	filter.MentionedID = caller.PersonID
	return s.stream(ctx, caller, filter, q)
}

func (s *streamService) Liked(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
	filter := s.filter(caller)
	filter.LikedBy = caller.PersonID
	return s.stream(ctx, caller, filter, q)
}

func (s *streamService) filter(caller *auth.Caller) repositories.StreamFilter {
	return repositories.StreamFilter{
		ViewerID:      caller.PersonID,
		PrivateAccess: caller.Can(auth.ScopePrivateRead),
	}
}

func (s *streamService) stream(ctx context.Context, caller *auth.Caller, filter repositories.StreamFilter, q paging.TimeQuery) ([]models.Post, error) {
	if filter.Empty() {
		return []models.Post{}, nil
	}

	posts, err := s.posts.Stream(ctx, filter, q)
	if err != nil {
		return nil, err
	}

	// Streams never show what a direct lookup would hide
	visible := posts[:0]
	for _, p := range posts {
		if CanSee(caller, &p) {
			visible = append(visible, p)
		}
	}

	if err := s.hydratePosts(ctx, postPointers(visible)...); err != nil {
		return nil, err
	}

	s.logger.Debug("stream assembled",
		"viewer_id", filter.ViewerID,
		"count", len(visible),
	)
	return visible, nil
}
