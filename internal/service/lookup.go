package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
)

// now returns the current time at the precision postgres stores, so cursors
// derived from returned rows match the stored values.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// isNumericID reports whether an external identifier is an internal id.
func isNumericID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// postLookup resolves external post identifiers and fills in the people and
// root posts records reference.
type postLookup struct {
	posts  repositories.PostRepository
	people repositories.PersonRepository
}

// load resolves a GUID or numeric id, ignoring visibility.
func (l *postLookup) load(ctx context.Context, id string) (*models.Post, error) {
	if isNumericID(id) {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrPostNotFound)
		}
		return l.posts.GetByID(ctx, n)
	}
	return l.posts.GetByGUID(ctx, id)
}

// findVisible resolves id and applies the visibility filter. A post the
// caller may not see is reported exactly like a missing one.
func (l *postLookup) findVisible(ctx context.Context, caller *auth.Caller, id string) (*models.Post, error) {
	post, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanSee(caller, post) {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrPostNotFound)
	}
	return post, nil
}

// peopleByID loads the given people keyed by id.
func (l *postLookup) peopleByID(ctx context.Context, ids []string) (map[string]models.Person, error) {
	out := make(map[string]models.Person, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	people, err := l.people.ListByIDs(ctx, unique(ids))
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	for _, p := range people {
		out[p.ID] = p
	}
	return out, nil
}

// guidsOf returns the GUIDs of the given people ids.
func (l *postLookup) guidsOf(ctx context.Context, ids []string) ([]string, error) {
	people, err := l.peopleByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	guids := make([]string, 0, len(people))
	for _, id := range unique(ids) {
		if p, ok := people[id]; ok {
			guids = append(guids, p.GUID)
		}
	}
	return guids, nil
}

// recipientsOf returns who an interaction with post federates to: nobody in
// particular for public posts, the audience for private ones.
func (l *postLookup) recipientsOf(ctx context.Context, post *models.Post) ([]string, error) {
	if post.Public {
		return nil, nil
	}
	return l.guidsOf(ctx, post.Audience)
}

// hydratePosts fills Author, MentionedPeople and Root of every post.
func (l *postLookup) hydratePosts(ctx context.Context, posts ...*models.Post) error {
	roots := make(map[int64]*models.Post)
	for _, p := range posts {
		if p.RootID == nil {
			continue
		}
		if _, ok := roots[*p.RootID]; ok {
			continue
		}
		root, err := l.posts.GetByID(ctx, *p.RootID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Root was deleted, the reshare stays
				roots[*p.RootID] = nil
				continue
			}
			return fmt.Errorf("load root post: %w", err)
		}
		roots[*p.RootID] = root
	}

	var ids []string
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
		ids = append(ids, p.MentionedIDs...)
	}
	for _, root := range roots {
		if root != nil {
			ids = append(ids, root.AuthorID)
			ids = append(ids, root.MentionedIDs...)
		}
	}

	people, err := l.peopleByID(ctx, ids)
	if err != nil {
		return err
	}

	fill := func(p *models.Post) {
		if author, ok := people[p.AuthorID]; ok {
			p.Author = &author
		}
		p.MentionedPeople = pick(people, p.MentionedIDs)
	}
	for _, root := range roots {
		if root != nil {
			fill(root)
		}
	}
	for _, p := range posts {
		fill(p)
		if p.RootID != nil {
			p.Root = roots[*p.RootID]
		}
	}
	return nil
}

func pick(people map[string]models.Person, ids []string) []models.Person {
	out := make([]models.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := people[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// postPointers adapts a slice for hydratePosts.
func postPointers(posts []models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i := range posts {
		out[i] = &posts[i]
	}
	return out
}
