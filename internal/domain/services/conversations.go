package services

import (
	"context"

	"podium/internal/auth"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/paging"
)

// CreateConversationRequest represents a request to start a private conversation
type CreateConversationRequest struct {
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"` // Person GUIDs or diaspora handles
}

// ConversationService defines business logic operations for conversations.
// Callers only ever see conversations they participate in.
type ConversationService interface {
	List(ctx context.Context, caller *auth.Caller, filter repositories.ConversationFilter, q paging.TimeQuery) ([]models.Conversation, error)
	Find(ctx context.Context, caller *auth.Caller, guid string) (*models.Conversation, error)

	// Create starts a conversation between the caller and their contacts
	Create(ctx context.Context, caller *auth.Caller, req *CreateConversationRequest) (*models.Conversation, error)

	// Hide removes the conversation from the caller's view
	Hide(ctx context.Context, caller *auth.Caller, guid string) error
}
