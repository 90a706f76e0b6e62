package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/paging"
)

// Interaction counters are computed on read so they never drift.
const postColumns = `
	p.id, p.guid, p.author_id, p.post_type, p.text, p.public,
	p.provider_display_name, p.root_id, p.created_at,
	COALESCE((SELECT array_agg(t.tag ORDER BY t.position) FROM post_tags t WHERE t.post_id = p.id), '{}'),
	COALESCE((SELECT array_agg(m.person_id::text ORDER BY m.position) FROM post_mentions m WHERE m.post_id = p.id), '{}'),
	COALESCE((SELECT array_agg(a.person_id::text) FROM post_audience a WHERE a.post_id = p.id), '{}'),
	(SELECT count(*) FROM comments c WHERE c.post_id = p.id),
	(SELECT count(*) FROM likes l WHERE l.post_id = p.id),
	(SELECT count(*) FROM posts r WHERE r.root_id = p.id)`

// PostgresPostRepository implements the PostRepository interface
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostgresPostRepository{pool: config.Pool}
}

// Create inserts a post with its audience, tags and mentions
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO posts (guid, author_id, post_type, text, public, provider_display_name, root_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		post.GUID,
		post.AuthorID,
		post.PostType,
		post.Text,
		post.Public,
		post.ProviderDisplayName,
		post.RootID,
		post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		if isPgDuplicateError(err) && post.RootID != nil {
			return fmt.Errorf("reshare of %d: %w", *post.RootID, domain.ErrAlreadyReshared)
		}
		if isPgDuplicateError(err) {
			return fmt.Errorf("post %s: %w", post.GUID, domain.ErrConflict)
		}
		return fmt.Errorf("create post: %w", err)
	}

	batch := &pgx.Batch{}
	for _, id := range post.Audience {
		batch.Queue(`INSERT INTO post_audience (post_id, person_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, post.ID, id)
	}
	for i, tag := range post.Tags {
		batch.Queue(`INSERT INTO post_tags (post_id, position, tag) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, post.ID, i, tag)
	}
	for i, id := range post.MentionedIDs {
		batch.Queue(`INSERT INTO post_mentions (post_id, position, person_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, post.ID, i, id)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert post relations: %w", err)
		}
	}

	return r.commit(ctx, tx)
}

// GetByID retrieves a post by internal id
func (r *PostgresPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.getOne(ctx, fmt.Sprint(id), `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id)
}

// GetByGUID retrieves a post by GUID
func (r *PostgresPostRepository) GetByGUID(ctx context.Context, guid string) (*models.Post, error) {
	return r.getOne(ctx, guid, `SELECT `+postColumns+` FROM posts p WHERE p.guid = $1`, guid)
}

// Delete removes a post. Comments, likes and relations cascade.
func (r *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", id, domain.ErrPostNotFound)
	}
	return nil
}

// FindReshare retrieves authorID's reshare of rootID
func (r *PostgresPostRepository) FindReshare(ctx context.Context, authorID string, rootID int64) (*models.Post, error) {
	return r.getOne(ctx, fmt.Sprint(rootID),
		`SELECT `+postColumns+` FROM posts p WHERE p.root_id = $1 AND p.author_id = $2`, rootID, authorID)
}

// ListReshares retrieves reshares of rootID, oldest first
func (r *PostgresPostRepository) ListReshares(ctx context.Context, rootID int64, q paging.IndexQuery) ([]models.Post, error) {
	a := args{}
	query := `SELECT ` + postColumns + ` FROM posts p WHERE p.root_id = ` + a.add(rootID) +
		` ORDER BY p.created_at ASC, p.id ASC` + indexWindow(q, &a)
	return r.list(ctx, query, a)
}

// Stream retrieves visible posts matching any criterion of filter
func (r *PostgresPostRepository) Stream(ctx context.Context, filter repositories.StreamFilter, q paging.TimeQuery) ([]models.Post, error) {
	if filter.Empty() {
		return []models.Post{}, nil
	}

	a := args{}
	visibility := "p.public"
	if filter.PrivateAccess {
		viewer := a.add(filter.ViewerID)
		visibility = fmt.Sprintf(`(p.public OR p.author_id = %[1]s::uuid OR EXISTS (
			SELECT 1 FROM post_audience pa WHERE pa.post_id = p.id AND pa.person_id = %[1]s::uuid))`, viewer)
	}

	var criteria []string
	if len(filter.AuthorIDs) > 0 {
		criteria = append(criteria, "p.author_id = ANY("+a.add(filter.AuthorIDs)+"::uuid[])")
	}
	if len(filter.Tags) > 0 {
		criteria = append(criteria, "EXISTS (SELECT 1 FROM post_tags t WHERE t.post_id = p.id AND t.tag = ANY("+a.add(filter.Tags)+"::text[]))")
	}
	if filter.MentionedID != "" {
		criteria = append(criteria, "EXISTS (SELECT 1 FROM post_mentions m WHERE m.post_id = p.id AND m.person_id = "+a.add(filter.MentionedID)+"::uuid)")
	}
	if filter.CommentedBy != "" {
		criteria = append(criteria, "EXISTS (SELECT 1 FROM comments c WHERE c.post_id = p.id AND c.author_id = "+a.add(filter.CommentedBy)+"::uuid)")
	}
	if filter.LikedBy != "" {
		criteria = append(criteria, "EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.author_id = "+a.add(filter.LikedBy)+"::uuid)")
	}

	where, tail := timeWindow("p", q, &a)
	query := `SELECT ` + postColumns + ` FROM posts p WHERE ` + visibility +
		` AND (` + strings.Join(criteria, " OR ") + `)` + where + tail

	return r.list(ctx, query, a)
}

func (r *PostgresPostRepository) getOne(ctx context.Context, key, query string, queryArgs ...any) (*models.Post, error) {
	post, err := scanPost(GetExecutor(ctx, r.pool).QueryRow(ctx, query, queryArgs...))
	if err != nil {
		if isPgNoRowsError(err) || isPgInvalidTextError(err) {
			return nil, fmt.Errorf("post %s: %w", key, domain.ErrPostNotFound)
		}
		return nil, err
	}
	return post, nil
}

func (r *PostgresPostRepository) list(ctx context.Context, query string, a args) ([]models.Post, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// begin starts a transaction, nested in the context's one when present.
func (r *PostgresPostRepository) begin(ctx context.Context) (pgx.Tx, error) {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx.Begin(ctx)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresPostRepository) commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID,
		&p.GUID,
		&p.AuthorID,
		&p.PostType,
		&p.Text,
		&p.Public,
		&p.ProviderDisplayName,
		&p.RootID,
		&p.CreatedAt,
		&p.Tags,
		&p.MentionedIDs,
		&p.Audience,
		&p.CommentsCount,
		&p.LikesCount,
		&p.ResharesCount,
	)
	if err != nil {
		if isPgNoRowsError(err) || isPgInvalidTextError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}
