package repositories

import (
	"context"

	"podium/internal/domain/models"
)

// AspectRepository defines data access operations for aspects and their memberships.
// A person is a contact of an owner when they are a member of any of the owner's aspects.
type AspectRepository interface {
	// List returns the owner's aspects ordered by order, then id
	List(ctx context.Context, ownerID string) ([]models.Aspect, error)

	GetByID(ctx context.Context, ownerID string, id int64) (*models.Aspect, error)

	// Create inserts an aspect. Duplicate names fail with domain.ErrAspectNameTaken.
	Create(ctx context.Context, aspect *models.Aspect) error

	// Update writes name, order and chat_enabled. Duplicate names fail with
	// domain.ErrAspectNameTaken.
	Update(ctx context.Context, aspect *models.Aspect) error

	Delete(ctx context.Context, ownerID string, id int64) error

	AddMember(ctx context.Context, aspectID int64, personID string) error

	// MemberIDs returns the distinct members of the given aspects of ownerID,
	// or of all their aspects when aspectIDs is empty
	MemberIDs(ctx context.Context, ownerID string, aspectIDs []int64) ([]string, error)

	// IsContact reports whether personID is in any of ownerID's aspects
	IsContact(ctx context.Context, ownerID, personID string) (bool, error)
}
