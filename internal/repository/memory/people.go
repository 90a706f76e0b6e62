package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"podium/internal/domain"
	"podium/internal/domain/models"
)

// PersonRepository implements repositories.PersonRepository
type PersonRepository struct{ s *Store }

func (r *PersonRepository) Create(_ context.Context, person *models.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.people {
		if p.GUID == person.GUID || strings.EqualFold(p.DiasporaHandle, person.DiasporaHandle) {
			return fmt.Errorf("person %s: %w", person.DiasporaHandle, domain.ErrConflict)
		}
	}
	person.ID = uuid.NewString()
	person.GUID = newGUID(person.GUID)
	stored := *person
	r.s.people[person.ID] = &stored
	return nil
}

func (r *PersonRepository) GetByID(_ context.Context, id string) (*models.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.people[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, fmt.Errorf("person %s: %w", id, domain.ErrPersonNotFound)
}

func (r *PersonRepository) GetByGUID(_ context.Context, guid string) (*models.Person, error) {
	return r.find(guid, func(p *models.Person) bool { return p.GUID == guid })
}

func (r *PersonRepository) GetByHandle(_ context.Context, handle string) (*models.Person, error) {
	return r.find(handle, func(p *models.Person) bool { return strings.EqualFold(p.DiasporaHandle, handle) })
}

func (r *PersonRepository) ListByIDs(_ context.Context, ids []string) ([]models.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.people[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *PersonRepository) find(key string, match func(*models.Person) bool) (*models.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.people {
		if match(p) {
			out := *p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("person %s: %w", key, domain.ErrPersonNotFound)
}
