package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/paging"
)

// PostgresLikeRepository implements the LikeRepository interface
type PostgresLikeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(config *RepositoryConfig) repositories.LikeRepository {
	return &PostgresLikeRepository{pool: config.Pool}
}

// Create inserts a like; the (post_id, author_id) constraint rejects a second one
func (r *PostgresLikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (guid, post_id, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		like.GUID,
		like.PostID,
		like.AuthorID,
		like.CreatedAt,
	).Scan(&like.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("like of post %d: %w", like.PostID, domain.ErrLikeExists)
		}
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

// Delete removes authorID's like of postID
func (r *PostgresLikeRepository) Delete(ctx context.Context, postID int64, authorID string) (*models.Like, error) {
	query := `
		DELETE FROM likes
		WHERE post_id = $1 AND author_id = $2
		RETURNING id, guid, post_id, author_id, created_at
	`
	var like models.Like
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, postID, authorID).Scan(
		&like.ID,
		&like.GUID,
		&like.PostID,
		&like.AuthorID,
		&like.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("like of post %d: %w", postID, domain.ErrLikeNotFound)
		}
		return nil, fmt.Errorf("delete like: %w", err)
	}
	return &like, nil
}

// ListForPost retrieves likes of postID, oldest first
func (r *PostgresLikeRepository) ListForPost(ctx context.Context, postID int64, q paging.IndexQuery) ([]models.Like, error) {
	a := args{}
	query := `
		SELECT l.id, l.guid, l.post_id, l.author_id, l.created_at
		FROM likes l
		WHERE l.post_id = ` + a.add(postID) + `
		ORDER BY l.created_at ASC, l.id ASC` + indexWindow(q, &a)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	likes := []models.Like{}
	for rows.Next() {
		var like models.Like
		if err := rows.Scan(&like.ID, &like.GUID, &like.PostID, &like.AuthorID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", err)
	}
	return likes, nil
}

// PostgresReportRepository implements the ReportRepository interface
type PostgresReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(config *RepositoryConfig) repositories.ReportRepository {
	return &PostgresReportRepository{pool: config.Pool}
}

// Create inserts a report; one per reporter and item
func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reporter_id, item_type, item_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		report.ReporterID,
		report.ItemType,
		report.ItemID,
		report.Text,
		report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("%s %d: %w", report.ItemType, report.ItemID, domain.ErrDuplicateReport)
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}
