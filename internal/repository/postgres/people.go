package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
)

const personColumns = `id, guid, diaspora_handle, name, avatar_url, local, created_at`

// PostgresPersonRepository implements the PersonRepository interface
type PostgresPersonRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(config *RepositoryConfig) repositories.PersonRepository {
	return &PostgresPersonRepository{pool: config.Pool}
}

// Create inserts a person
func (r *PostgresPersonRepository) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO people (guid, diaspora_handle, name, avatar_url, local, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if person.GUID == "" {
		person.GUID = uuid.NewString()
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = time.Now().UTC()
	}

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		person.GUID,
		person.DiasporaHandle,
		person.Name,
		person.AvatarURL,
		person.Local,
		person.CreatedAt,
	).Scan(&person.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("person %s: %w", person.DiasporaHandle, domain.ErrConflict)
		}
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// GetByID retrieves a person by internal id
func (r *PostgresPersonRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	return r.getOne(ctx, id, `SELECT `+personColumns+` FROM people WHERE id = $1`, id)
}

// GetByGUID retrieves a person by GUID
func (r *PostgresPersonRepository) GetByGUID(ctx context.Context, guid string) (*models.Person, error) {
	return r.getOne(ctx, guid, `SELECT `+personColumns+` FROM people WHERE guid = $1`, guid)
}

// GetByHandle retrieves a person by diaspora handle, case-insensitively
func (r *PostgresPersonRepository) GetByHandle(ctx context.Context, handle string) (*models.Person, error) {
	return r.getOne(ctx, handle, `SELECT `+personColumns+` FROM people WHERE lower(diaspora_handle) = lower($1)`, handle)
}

// ListByIDs retrieves the given people
func (r *PostgresPersonRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Person, error) {
	if len(ids) == 0 {
		return []models.Person{}, nil
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

func (r *PostgresPersonRepository) getOne(ctx context.Context, key, query string, arg any) (*models.Person, error) {
	person, err := scanPerson(GetExecutor(ctx, r.pool).QueryRow(ctx, query, arg))
	if err != nil {
		if isPgNoRowsError(err) || isPgInvalidTextError(err) {
			return nil, fmt.Errorf("person %s: %w", key, domain.ErrPersonNotFound)
		}
		return nil, err
	}
	return person, nil
}

func scanPerson(row pgx.Row) (*models.Person, error) {
	var p models.Person
	err := row.Scan(
		&p.ID,
		&p.GUID,
		&p.DiasporaHandle,
		&p.Name,
		&p.AvatarURL,
		&p.Local,
		&p.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) || isPgInvalidTextError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	return &p, nil
}
