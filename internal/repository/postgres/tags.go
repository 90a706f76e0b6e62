package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podium/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{pool: config.Pool}
}

// Follow records that personID follows tag
func (r *PostgresTagRepository) Follow(ctx context.Context, personID, tag string) error {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	_, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO tag_followings (person_id, tag) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, personID, tag)
	if err != nil {
		return fmt.Errorf("follow tag: %w", err)
	}
	return nil
}

// Followed retrieves the tags personID follows
func (r *PostgresTagRepository) Followed(ctx context.Context, personID string) ([]string, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx,
		`SELECT tag FROM tag_followings WHERE person_id = $1 ORDER BY tag`, personID)
	if err != nil {
		return nil, fmt.Errorf("list followed tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan followed tags: %w", err)
	}
	return tags, nil
}

// PostgresTokenRepository implements the TokenRepository interface
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(config *RepositoryConfig) repositories.TokenRepository {
	return &PostgresTokenRepository{pool: config.Pool}
}

// Revoke records a token id as revoked until it expires
func (r *PostgresTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING
	`, tokenID, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked
func (r *PostgresTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := GetExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`, tokenID).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}
