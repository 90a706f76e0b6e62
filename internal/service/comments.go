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
	"podium/internal/paging"
	"podium/internal/service/content"
)

// commentService implements the CommentService interface
type commentService struct {
	*postLookup
	comments  repositories.CommentRepository
	reports   repositories.ReportRepository
	deferrer  Deferrer
	sanitizer *content.Sanitizer
	logger    *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	posts repositories.PostRepository,
	people repositories.PersonRepository,
	comments repositories.CommentRepository,
	reports repositories.ReportRepository,
	deferrer Deferrer,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		postLookup: &postLookup{posts: posts, people: people},
		comments:   comments,
		reports:    reports,
		deferrer:   deferrer,
		sanitizer:  content.NewSanitizer(),
		logger:     logger,
	}
}

// ListForPost retrieves comments of a visible post
func (s *commentService) ListForPost(ctx context.Context, caller *auth.Caller, postID string, q paging.TimeQuery) ([]models.Comment, error) {
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListForPost(ctx, post.ID, q)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateComments(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create comments on a visible post
func (s *commentService) Create(ctx context.Context, caller *auth.Caller, postID string, req *services.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}
	if !CanInteract(caller, post) {
		return nil, fmt.Errorf("post %s: %w", postID, domain.ErrPostNotFound)
	}

	req.Body = s.sanitizer.Text(req.Body)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Body, validation.Required, validation.RuneLength(1, config.MaxCommentLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	mentioned, err := resolveHandles(ctx, s.people, content.MentionedHandles(req.Body))
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		GUID:      uuid.NewString(),
		PostID:    post.ID,
		AuthorID:  caller.PersonID,
		Text:      req.Body,
		CreatedAt: now(),
	}
	for _, id := range mentioned {
		if post.Public || post.InAudience(id) {
			comment.MentionedIDs = append(comment.MentionedIDs, id)
		}
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	single := []models.Comment{*comment}
	if err := s.hydrateComments(ctx, single); err != nil {
		return nil, err
	}
	comment = &single[0]

	s.logger.Info("comment created",
		"guid", comment.GUID,
		"post_guid", post.GUID,
		"author_id", caller.PersonID,
	)

	s.deferRelayable(ctx, caller, post, federation.EntityComment, comment.GUID)

	return comment, nil
}

// Destroy deletes a comment of postID
func (s *commentService) Destroy(ctx context.Context, caller *auth.Caller, postID, commentID string) error {
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		return err
	}
	if !CanInteract(caller, post) {
		return fmt.Errorf("post %s: %w", postID, domain.ErrDeleteNotAllowed)
	}

	comment, err := s.commentOf(ctx, post, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != caller.PersonID && post.AuthorID != caller.PersonID {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrDeleteNotAllowed)
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		"guid", comment.GUID,
		"post_guid", post.GUID,
		"deleted_by", caller.PersonID,
	)

	s.deferRelayable(ctx, caller, post, federation.EntityRetraction, comment.GUID)

	return nil
}

// Report flags a comment of postID
func (s *commentService) Report(ctx context.Context, caller *auth.Caller, postID, commentID string, req *services.ReportRequest) error {
	// Any lookup failure reads as "no such comment on this post"
	post, err := s.findVisible(ctx, caller, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("comment %s: %w", commentID, domain.ErrCommentNotFound)
		}
		return err
	}
	comment, err := s.commentOf(ctx, post, commentID)
	if err != nil {
		return err
	}

	req.Reason = s.sanitizer.Text(req.Reason)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Reason, validation.Required, validation.RuneLength(1, config.MaxReportReasonLength)),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReasonRequired, err)
	}

	report := &models.Report{
		ReporterID: caller.PersonID,
		ItemType:   models.ReportItemComment,
		ItemID:     comment.ID,
		Text:       req.Reason,
		CreatedAt:  now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return err
	}

	s.logger.Info("comment reported",
		"comment_guid", comment.GUID,
		"reporter_id", caller.PersonID,
	)
	return nil
}

// commentOf loads commentID and checks it belongs to post.
func (s *commentService) commentOf(ctx context.Context, post *models.Post, commentID string) (*models.Comment, error) {
	comment, err := s.comments.GetByGUID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != post.ID {
		return nil, fmt.Errorf("comment %s on post %s: %w", commentID, post.GUID, domain.ErrCommentNotFound)
	}
	return comment, nil
}

func (s *commentService) hydrateComments(ctx context.Context, comments []models.Comment) error {
	var ids []string
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
		ids = append(ids, c.MentionedIDs...)
	}
	people, err := s.peopleByID(ctx, ids)
	if err != nil {
		return err
	}
	for i := range comments {
		if author, ok := people[comments[i].AuthorID]; ok {
			comments[i].Author = &author
		}
		comments[i].MentionedPeople = pick(people, comments[i].MentionedIDs)
	}
	return nil
}

// deferRelayable federates an interaction to the post's audience, or
// publicly for public posts.
func (s *commentService) deferRelayable(ctx context.Context, caller *auth.Caller, post *models.Post, entityType, guid string) {
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
