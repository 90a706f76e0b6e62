package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/paging"
)

// CommentRepository implements repositories.CommentRepository
type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = r.s.id()
	comment.GUID = newGUID(comment.GUID)
	stored := *comment
	stored.MentionedIDs = slices.Clone(comment.MentionedIDs)
	stored.Author, stored.MentionedPeople = nil, nil
	r.s.comments = append(r.s.comments, &stored)
	return nil
}

func (r *CommentRepository) GetByGUID(_ context.Context, guid string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.comments {
		if c.GUID == guid {
			out := *c
			out.MentionedIDs = slices.Clone(c.MentionedIDs)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("comment %s: %w", guid, domain.ErrCommentNotFound)
}

func (r *CommentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	before := len(r.s.comments)
	r.s.comments = slices.DeleteFunc(r.s.comments, func(c *models.Comment) bool { return c.ID == id })
	if len(r.s.comments) == before {
		return fmt.Errorf("comment %d: %w", id, domain.ErrCommentNotFound)
	}
	return nil
}

func (r *CommentRepository) ListForPost(_ context.Context, postID int64, q paging.TimeQuery) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			row := *c
			row.MentionedIDs = slices.Clone(c.MentionedIDs)
			out = append(out, row)
		}
	}
	return paging.Select(out, q, func(c models.Comment) time.Time { return c.CreatedAt }), nil
}

// LikeRepository implements repositories.LikeRepository
type LikeRepository struct{ s *Store }

func (r *LikeRepository) Create(_ context.Context, like *models.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.likes {
		if l.PostID == like.PostID && l.AuthorID == like.AuthorID {
			return domain.ErrLikeExists
		}
	}
	like.ID = r.s.id()
	like.GUID = newGUID(like.GUID)
	stored := *like
	stored.Author = nil
	r.s.likes = append(r.s.likes, &stored)
	return nil
}

func (r *LikeRepository) Delete(_ context.Context, postID int64, authorID string) (*models.Like, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.likes, func(l *models.Like) bool {
		return l.PostID == postID && l.AuthorID == authorID
	})
	if i < 0 {
		return nil, domain.ErrLikeNotFound
	}
	removed := *r.s.likes[i]
	r.s.likes = slices.Delete(r.s.likes, i, i+1)
	return &removed, nil
}

func (r *LikeRepository) ListForPost(_ context.Context, postID int64, q paging.IndexQuery) ([]models.Like, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Like
	for _, l := range r.s.likes {
		if l.PostID == postID {
			out = append(out, *l)
		}
	}
	return paging.Window(out, q), nil
}

// ReportRepository implements repositories.ReportRepository
type ReportRepository struct{ s *Store }

func (r *ReportRepository) Create(_ context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reports {
		if existing.ItemType == report.ItemType && existing.ItemID == report.ItemID &&
			existing.ReporterID == report.ReporterID {
			return domain.ErrDuplicateReport
		}
	}
	report.ID = r.s.id()
	stored := *report
	r.s.reports = append(r.s.reports, &stored)
	return nil
}
