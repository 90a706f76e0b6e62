package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
)

const aspectColumns = `id, owner_id, name, order_id, chat_enabled, created_at`

// PostgresAspectRepository implements the AspectRepository interface
type PostgresAspectRepository struct {
	pool *pgxpool.Pool
}

// NewAspectRepository creates a new aspect repository
func NewAspectRepository(config *RepositoryConfig) repositories.AspectRepository {
	return &PostgresAspectRepository{pool: config.Pool}
}

// List retrieves the owner's aspects in order
func (r *PostgresAspectRepository) List(ctx context.Context, ownerID string) ([]models.Aspect, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx,
		`SELECT `+aspectColumns+` FROM aspects WHERE owner_id = $1 ORDER BY order_id, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list aspects: %w", err)
	}
	defer rows.Close()

	aspects := []models.Aspect{}
	for rows.Next() {
		aspect, err := scanAspect(rows)
		if err != nil {
			return nil, err
		}
		aspects = append(aspects, *aspect)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aspects: %w", err)
	}
	return aspects, nil
}

// GetByID retrieves one of the owner's aspects
func (r *PostgresAspectRepository) GetByID(ctx context.Context, ownerID string, id int64) (*models.Aspect, error) {
	row := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+aspectColumns+` FROM aspects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	aspect, err := scanAspect(row)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("aspect %d: %w", id, domain.ErrAspectNotFound)
		}
		return nil, err
	}
	return aspect, nil
}

// Create inserts an aspect
func (r *PostgresAspectRepository) Create(ctx context.Context, aspect *models.Aspect) error {
	query := `
		INSERT INTO aspects (owner_id, name, order_id, chat_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if aspect.CreatedAt.IsZero() {
		aspect.CreatedAt = time.Now().UTC()
	}
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		aspect.OwnerID,
		aspect.Name,
		aspect.Order,
		aspect.ChatEnabled,
		aspect.CreatedAt,
	).Scan(&aspect.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("aspect %q: %w", aspect.Name, domain.ErrAspectNameTaken)
		}
		return fmt.Errorf("create aspect: %w", err)
	}
	return nil
}

// Update writes name, order and chat_enabled
func (r *PostgresAspectRepository) Update(ctx context.Context, aspect *models.Aspect) error {
	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		UPDATE aspects SET name = $1, order_id = $2, chat_enabled = $3
		WHERE id = $4 AND owner_id = $5
	`, aspect.Name, aspect.Order, aspect.ChatEnabled, aspect.ID, aspect.OwnerID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("aspect %q: %w", aspect.Name, domain.ErrAspectNameTaken)
		}
		return fmt.Errorf("update aspect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("aspect %d: %w", aspect.ID, domain.ErrAspectNotFound)
	}
	return nil
}

// Delete removes an aspect and its memberships
func (r *PostgresAspectRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM aspects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete aspect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("aspect %d: %w", id, domain.ErrAspectNotFound)
	}
	return nil
}

// AddMember puts personID into an aspect
func (r *PostgresAspectRepository) AddMember(ctx context.Context, aspectID int64, personID string) error {
	_, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO aspect_memberships (aspect_id, person_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, aspectID, personID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("aspect %d: %w", aspectID, domain.ErrAspectNotFound)
		}
		return fmt.Errorf("add aspect member: %w", err)
	}
	return nil
}

// MemberIDs retrieves the distinct members of the owner's aspects
func (r *PostgresAspectRepository) MemberIDs(ctx context.Context, ownerID string, aspectIDs []int64) ([]string, error) {
	a := args{}
	query := `
		SELECT DISTINCT m.person_id::text
		FROM aspect_memberships m
		JOIN aspects a ON a.id = m.aspect_id
		WHERE a.owner_id = ` + a.add(ownerID)
	if len(aspectIDs) > 0 {
		query += ` AND a.id = ANY(` + a.add(aspectIDs) + `::bigint[])`
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("list aspect members: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan aspect members: %w", err)
	}
	return ids, nil
}

// IsContact reports whether personID is in any of the owner's aspects
func (r *PostgresAspectRepository) IsContact(ctx context.Context, ownerID, personID string) (bool, error) {
	var contact bool
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM aspect_memberships m
			JOIN aspects a ON a.id = m.aspect_id
			WHERE a.owner_id = $1 AND m.person_id = $2
		)
	`, ownerID, personID).Scan(&contact)
	if err != nil {
		return false, fmt.Errorf("check contact: %w", err)
	}
	return contact, nil
}

func scanAspect(row pgx.Row) (*models.Aspect, error) {
	var a models.Aspect
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Order, &a.ChatEnabled, &a.CreatedAt)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan aspect: %w", err)
	}
	return &a, nil
}
