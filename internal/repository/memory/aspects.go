package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"podium/internal/domain"
	"podium/internal/domain/models"
)

// AspectRepository implements repositories.AspectRepository
type AspectRepository struct{ s *Store }

func (r *AspectRepository) List(_ context.Context, ownerID string) ([]models.Aspect, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Aspect{}
	for _, a := range r.s.aspects {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Aspect) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return int(a.ID - b.ID)
	})
	return out, nil
}

func (r *AspectRepository) GetByID(_ context.Context, ownerID string, id int64) (*models.Aspect, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if a := r.lookup(ownerID, id); a != nil {
		out := *a
		return &out, nil
	}
	return nil, fmt.Errorf("aspect %d: %w", id, domain.ErrAspectNotFound)
}

func (r *AspectRepository) Create(_ context.Context, aspect *models.Aspect) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(aspect) {
		return domain.ErrAspectNameTaken
	}
	aspect.ID = r.s.id()
	stored := *aspect
	r.s.aspects = append(r.s.aspects, &stored)
	return nil
}

func (r *AspectRepository) Update(_ context.Context, aspect *models.Aspect) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := r.lookup(aspect.OwnerID, aspect.ID)
	if stored == nil {
		return fmt.Errorf("aspect %d: %w", aspect.ID, domain.ErrAspectNotFound)
	}
	if r.nameTaken(aspect) {
		return domain.ErrAspectNameTaken
	}
	stored.Name = aspect.Name
	stored.Order = aspect.Order
	stored.ChatEnabled = aspect.ChatEnabled
	return nil
}

func (r *AspectRepository) Delete(_ context.Context, ownerID string, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.lookup(ownerID, id) == nil {
		return fmt.Errorf("aspect %d: %w", id, domain.ErrAspectNotFound)
	}
	r.s.aspects = slices.DeleteFunc(r.s.aspects, func(a *models.Aspect) bool { return a.ID == id })
	delete(r.s.members, id)
	return nil
}

func (r *AspectRepository) AddMember(_ context.Context, aspectID int64, personID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.aspects, func(a *models.Aspect) bool { return a.ID == aspectID }) {
		return fmt.Errorf("aspect %d: %w", aspectID, domain.ErrAspectNotFound)
	}
	if !slices.Contains(r.s.members[aspectID], personID) {
		r.s.members[aspectID] = append(r.s.members[aspectID], personID)
	}
	return nil
}

func (r *AspectRepository) MemberIDs(_ context.Context, ownerID string, aspectIDs []int64) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]bool)
	out := []string{}
	for _, a := range r.s.aspects {
		if a.OwnerID != ownerID {
			continue
		}
		if len(aspectIDs) > 0 && !slices.Contains(aspectIDs, a.ID) {
			continue
		}
		for _, id := range r.s.members[a.ID] {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

func (r *AspectRepository) IsContact(ctx context.Context, ownerID, personID string) (bool, error) {
	members, err := r.MemberIDs(ctx, ownerID, nil)
	if err != nil {
		return false, err
	}
	return slices.Contains(members, personID), nil
}

func (r *AspectRepository) lookup(ownerID string, id int64) *models.Aspect {
	for _, a := range r.s.aspects {
		if a.ID == id && a.OwnerID == ownerID {
			return a
		}
	}
	return nil
}

func (r *AspectRepository) nameTaken(aspect *models.Aspect) bool {
	for _, a := range r.s.aspects {
		if a.OwnerID == aspect.OwnerID && a.ID != aspect.ID && strings.EqualFold(a.Name, aspect.Name) {
			return true
		}
	}
	return false
}
