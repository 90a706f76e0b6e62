package repositories

import (
	"context"
	"time"

	"podium/internal/domain/models"
	"podium/internal/paging"
)

// ConversationFilter narrows a participant's conversation list
type ConversationFilter struct {
	OnlyAfter  time.Time // created_at >= OnlyAfter when set
	OnlyUnread bool
}

// ConversationRepository defines data access operations for private conversations.
// Reads are scoped to a participant through their visibility row.
type ConversationRepository interface {
	// Create inserts the conversation, a visibility per participant and its
	// first message. Every participant but the author starts with one unread.
	Create(ctx context.Context, conversation *models.Conversation, first *models.Message) error

	// GetByGUID returns the conversation if personID still has a visibility on it
	GetByGUID(ctx context.Context, guid, personID string) (*models.Conversation, error)

	// ListForPerson returns conversations visible to personID within the time window
	ListForPerson(ctx context.Context, personID string, filter ConversationFilter, q paging.TimeQuery) ([]models.Conversation, error)

	// Hide removes personID's visibility and reports whether one existed
	Hide(ctx context.Context, guid, personID string) (bool, error)
}
