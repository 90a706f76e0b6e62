package repositories

import (
	"context"

	"podium/internal/domain/models"
)

// PersonRepository defines data access operations for people
type PersonRepository interface {
	// Create inserts a person and fills its ID
	Create(ctx context.Context, person *models.Person) error

	GetByID(ctx context.Context, id string) (*models.Person, error)
	GetByGUID(ctx context.Context, guid string) (*models.Person, error)

	// GetByHandle looks a person up by diaspora handle, case-insensitively
	GetByHandle(ctx context.Context, handle string) (*models.Person, error)

	// ListByIDs returns the people with the given IDs in no particular order.
	// Unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]models.Person, error)
}
