package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/paging"
)

const commentColumns = `
	c.id, c.guid, c.post_id, c.author_id, c.text, c.created_at,
	COALESCE((SELECT array_agg(m.person_id::text ORDER BY m.position) FROM comment_mentions m WHERE m.comment_id = c.id), '{}')`

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{pool: config.Pool}
}

// Create inserts a comment with its mentions
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		WITH inserted AS (
			INSERT INTO comments (guid, post_id, author_id, text, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		), mentions AS (
			INSERT INTO comment_mentions (comment_id, position, person_id)
			SELECT inserted.id, m.ord - 1, m.person_id
			FROM inserted, unnest($6::uuid[]) WITH ORDINALITY AS m(person_id, ord)
			ON CONFLICT DO NOTHING
		)
		SELECT id FROM inserted
	`
	mentioned := comment.MentionedIDs
	if mentioned == nil {
		mentioned = []string{}
	}

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		comment.GUID,
		comment.PostID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
		mentioned,
	).Scan(&comment.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("comment %s: %w", comment.GUID, domain.ErrConflict)
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// GetByGUID retrieves a comment by GUID
func (r *PostgresCommentRepository) GetByGUID(ctx context.Context, guid string) (*models.Comment, error) {
	row := GetExecutor(ctx, r.pool).QueryRow(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.guid = $1`, guid)
	comment, err := scanComment(row)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", guid, domain.ErrCommentNotFound)
		}
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment
func (r *PostgresCommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %d: %w", id, domain.ErrCommentNotFound)
	}
	return nil
}

// ListForPost retrieves comments on postID within the time window
func (r *PostgresCommentRepository) ListForPost(ctx context.Context, postID int64, q paging.TimeQuery) ([]models.Comment, error) {
	a := args{}
	where, tail := timeWindow("c", q, &a)
	query := `SELECT ` + commentColumns + ` FROM comments c WHERE c.post_id = ` + a.add(postID) + where + tail

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.GUID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.MentionedIDs)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &c, nil
}
