package memory

import (
	"context"
	"slices"
	"strings"
	"time"
)

// TagRepository implements repositories.TagRepository
type TagRepository struct{ s *Store }

func (r *TagRepository) Follow(_ context.Context, personID, tag string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	if !containsFold(r.s.followedTags[personID], tag) {
		r.s.followedTags[personID] = append(r.s.followedTags[personID], tag)
	}
	return nil
}

func (r *TagRepository) Followed(_ context.Context, personID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.followedTags[personID]), nil
}

// TokenRepository implements repositories.TokenRepository
type TokenRepository struct{ s *Store }

func (r *TokenRepository) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = expiresAt
	return nil
}

func (r *TokenRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[tokenID]
	return ok, nil
}
