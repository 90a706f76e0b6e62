package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/paging"
)

// ConversationRepository implements repositories.ConversationRepository
type ConversationRepository struct{ s *Store }

func (r *ConversationRepository) Create(_ context.Context, conversation *models.Conversation, first *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conversation.ID = r.s.id()
	conversation.GUID = newGUID(conversation.GUID)
	stored := *conversation
	stored.ParticipantIDs = slices.Clone(conversation.ParticipantIDs)
	stored.Participants = nil
	r.s.conversations = append(r.s.conversations, &stored)

	unread := make(map[string]int, len(conversation.ParticipantIDs))
	for _, id := range conversation.ParticipantIDs {
		if id != conversation.AuthorID {
			unread[id] = 1
		} else {
			unread[id] = 0
		}
	}
	r.s.visibility[conversation.ID] = unread

	first.ID = r.s.id()
	first.GUID = newGUID(first.GUID)
	first.ConversationID = conversation.ID
	msg := *first
	r.s.messages = append(r.s.messages, &msg)
	return nil
}

func (r *ConversationRepository) GetByGUID(_ context.Context, guid, personID string) (*models.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.conversations {
		if c.GUID != guid {
			continue
		}
		if out, ok := r.read(c, personID); ok {
			return &out, nil
		}
		break
	}
	return nil, fmt.Errorf("conversation %s: %w", guid, domain.ErrConversationNotFound)
}

func (r *ConversationRepository) ListForPerson(_ context.Context, personID string, filter repositories.ConversationFilter, q paging.TimeQuery) ([]models.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Conversation
	for _, c := range r.s.conversations {
		row, ok := r.read(c, personID)
		if !ok {
			continue
		}
		if !filter.OnlyAfter.IsZero() && row.CreatedAt.Before(filter.OnlyAfter) {
			continue
		}
		if filter.OnlyUnread && row.Unread == 0 {
			continue
		}
		out = append(out, row)
	}
	return paging.Select(out, q, func(c models.Conversation) time.Time { return c.CreatedAt }), nil
}

func (r *ConversationRepository) Hide(_ context.Context, guid, personID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.conversations {
		if c.GUID != guid {
			continue
		}
		visible := r.s.visibility[c.ID]
		if _, ok := visible[personID]; !ok {
			return false, nil
		}
		delete(visible, personID)
		return true, nil
	}
	return false, nil
}

// read returns c as seen by personID. Callers hold the lock.
func (r *ConversationRepository) read(c *models.Conversation, personID string) (models.Conversation, bool) {
	unread, ok := r.s.visibility[c.ID][personID]
	if !ok {
		return models.Conversation{}, false
	}
	out := *c
	out.ParticipantIDs = slices.Clone(c.ParticipantIDs)
	out.Unread = unread
	return out, true
}
