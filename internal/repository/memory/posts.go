package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/paging"
)

// PostRepository implements repositories.PostRepository
type PostRepository struct{ s *Store }

func (r *PostRepository) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.posts {
		if p.GUID == post.GUID {
			return fmt.Errorf("post %s: %w", post.GUID, domain.ErrConflict)
		}
		if post.RootID != nil && p.RootID != nil && *p.RootID == *post.RootID && p.AuthorID == post.AuthorID {
			return fmt.Errorf("reshare of %d: %w", *post.RootID, domain.ErrAlreadyReshared)
		}
	}
	post.ID = r.s.id()
	post.GUID = newGUID(post.GUID)
	stored := clonePost(post)
	r.s.posts = append(r.s.posts, &stored)
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id int64) (*models.Post, error) {
	return r.find(fmt.Sprint(id), func(p *models.Post) bool { return p.ID == id })
}

func (r *PostRepository) GetByGUID(_ context.Context, guid string) (*models.Post, error) {
	return r.find(guid, func(p *models.Post) bool { return p.GUID == guid })
}

func (r *PostRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	before := len(r.s.posts)
	r.s.posts = slices.DeleteFunc(r.s.posts, func(p *models.Post) bool { return p.ID == id })
	if len(r.s.posts) == before {
		return fmt.Errorf("post %d: %w", id, domain.ErrPostNotFound)
	}
	r.s.comments = slices.DeleteFunc(r.s.comments, func(c *models.Comment) bool { return c.PostID == id })
	r.s.likes = slices.DeleteFunc(r.s.likes, func(l *models.Like) bool { return l.PostID == id })
	return nil
}

func (r *PostRepository) FindReshare(_ context.Context, authorID string, rootID int64) (*models.Post, error) {
	return r.find(fmt.Sprint(rootID), func(p *models.Post) bool {
		return p.RootID != nil && *p.RootID == rootID && p.AuthorID == authorID
	})
}

func (r *PostRepository) ListReshares(_ context.Context, rootID int64, q paging.IndexQuery) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Post
	for _, p := range r.s.posts {
		if p.RootID != nil && *p.RootID == rootID {
			out = append(out, r.read(p))
		}
	}
	return paging.Window(out, q), nil
}

func (r *PostRepository) Stream(_ context.Context, filter repositories.StreamFilter, q paging.TimeQuery) ([]models.Post, error) {
	if filter.Empty() {
		return []models.Post{}, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Post
	for _, p := range r.s.posts {
		if !p.Public && !(filter.PrivateAccess && p.InAudience(filter.ViewerID)) {
			continue
		}
		if r.matches(p, filter) {
			out = append(out, r.read(p))
		}
	}
	return paging.Select(out, q, func(p models.Post) time.Time { return p.CreatedAt }), nil
}

func (r *PostRepository) matches(p *models.Post, f repositories.StreamFilter) bool {
	if slices.Contains(f.AuthorIDs, p.AuthorID) {
		return true
	}
	for _, tag := range f.Tags {
		if containsFold(p.Tags, tag) {
			return true
		}
	}
	if f.MentionedID != "" && slices.Contains(p.MentionedIDs, f.MentionedID) {
		return true
	}
	if f.CommentedBy != "" && slices.ContainsFunc(r.s.comments, func(c *models.Comment) bool {
		return c.PostID == p.ID && c.AuthorID == f.CommentedBy
	}) {
		return true
	}
	if f.LikedBy != "" && slices.ContainsFunc(r.s.likes, func(l *models.Like) bool {
		return l.PostID == p.ID && l.AuthorID == f.LikedBy
	}) {
		return true
	}
	return false
}

func (r *PostRepository) find(key string, match func(*models.Post) bool) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.posts {
		if match(p) {
			out := r.read(p)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("post %s: %w", key, domain.ErrPostNotFound)
}

// read copies p and computes its interaction counters. Callers hold the lock.
func (r *PostRepository) read(p *models.Post) models.Post {
	out := clonePost(p)
	for _, c := range r.s.comments {
		if c.PostID == p.ID {
			out.CommentsCount++
		}
	}
	for _, l := range r.s.likes {
		if l.PostID == p.ID {
			out.LikesCount++
		}
	}
	for _, other := range r.s.posts {
		if other.RootID != nil && *other.RootID == p.ID {
			out.ResharesCount++
		}
	}
	return out
}

func clonePost(p *models.Post) models.Post {
	out := *p
	out.Tags = slices.Clone(p.Tags)
	out.MentionedIDs = slices.Clone(p.MentionedIDs)
	out.Audience = slices.Clone(p.Audience)
	if p.RootID != nil {
		root := *p.RootID
		out.RootID = &root
	}
	out.Author = nil
	out.MentionedPeople = nil
	out.Root = nil
	return out
}
