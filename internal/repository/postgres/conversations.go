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

// Reads join the viewer's visibility row, which carries their unread count.
const conversationColumns = `
	c.id, c.guid, c.subject, c.author_id, c.created_at, v.unread,
	COALESCE((SELECT array_agg(cp.person_id::text ORDER BY cp.position)
		FROM conversation_participants cp WHERE cp.conversation_id = c.id), '{}')`

// PostgresConversationRepository implements the ConversationRepository interface
type PostgresConversationRepository struct {
	pool *pgxpool.Pool
	txm  repositories.TransactionManager
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool: config.Pool,
		txm:  NewTransactionManager(config),
	}
}

// Create inserts the conversation, its participants and visibilities and the first message
func (r *PostgresConversationRepository) Create(ctx context.Context, conversation *models.Conversation, first *models.Message) error {
	return r.txm.ExecTx(ctx, func(ctx context.Context) error {
		db := GetExecutor(ctx, r.pool)

		err := db.QueryRow(ctx, `
			INSERT INTO conversations (guid, subject, author_id, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, conversation.GUID, conversation.Subject, conversation.AuthorID, conversation.CreatedAt).Scan(&conversation.ID)
		if err != nil {
			if isPgDuplicateError(err) {
				return fmt.Errorf("conversation %s: %w", conversation.GUID, domain.ErrConflict)
			}
			return fmt.Errorf("create conversation: %w", err)
		}

		batch := &pgx.Batch{}
		for i, id := range conversation.ParticipantIDs {
			unread := 1
			if id == conversation.AuthorID {
				unread = 0
			}
			batch.Queue(`INSERT INTO conversation_participants (conversation_id, position, person_id) VALUES ($1, $2, $3)`,
				conversation.ID, i, id)
			batch.Queue(`INSERT INTO conversation_visibilities (conversation_id, person_id, unread) VALUES ($1, $2, $3)`,
				conversation.ID, id, unread)
		}
		if err := db.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert participants: %w", err)
		}

		first.ConversationID = conversation.ID
		err = db.QueryRow(ctx, `
			INSERT INTO messages (guid, conversation_id, author_id, text, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, first.GUID, first.ConversationID, first.AuthorID, first.Text, first.CreatedAt).Scan(&first.ID)
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		return nil
	})
}

// GetByGUID retrieves a conversation personID still participates in
func (r *PostgresConversationRepository) GetByGUID(ctx context.Context, guid, personID string) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations c
		JOIN conversation_visibilities v ON v.conversation_id = c.id AND v.person_id = $2
		WHERE c.guid = $1
	`
	conversation, err := scanConversation(GetExecutor(ctx, r.pool).QueryRow(ctx, query, guid, personID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %s: %w", guid, domain.ErrConversationNotFound)
		}
		return nil, err
	}
	return conversation, nil
}

// ListForPerson retrieves conversations visible to personID
func (r *PostgresConversationRepository) ListForPerson(ctx context.Context, personID string, filter repositories.ConversationFilter, q paging.TimeQuery) ([]models.Conversation, error) {
	a := args{}
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations c
		JOIN conversation_visibilities v ON v.conversation_id = c.id AND v.person_id = ` + a.add(personID) + `
		WHERE TRUE`
	if !filter.OnlyAfter.IsZero() {
		query += ` AND c.created_at >= ` + a.add(filter.OnlyAfter)
	}
	if filter.OnlyUnread {
		query += ` AND v.unread > 0`
	}
	where, tail := timeWindow("c", q, &a)
	query += where + tail

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, a...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, *conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return conversations, nil
}

// Hide removes personID's visibility row
func (r *PostgresConversationRepository) Hide(ctx context.Context, guid, personID string) (bool, error) {
	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, `
		DELETE FROM conversation_visibilities v
		USING conversations c
		WHERE v.conversation_id = c.id AND c.guid = $1 AND v.person_id = $2
	`, guid, personID)
	if err != nil {
		return false, fmt.Errorf("hide conversation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var c models.Conversation
	err := row.Scan(&c.ID, &c.GUID, &c.Subject, &c.AuthorID, &c.CreatedAt, &c.Unread, &c.ParticipantIDs)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	return &c, nil
}
