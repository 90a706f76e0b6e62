package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/federation"
	"podium/internal/paging"
	"podium/internal/service/content"
)

// conversationService implements the ConversationService interface
type conversationService struct {
	conversations repositories.ConversationRepository
	people        repositories.PersonRepository
	aspects       repositories.AspectRepository
	deferrer      Deferrer
	sanitizer     *content.Sanitizer
	logger        *slog.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	conversations repositories.ConversationRepository,
	people repositories.PersonRepository,
	aspects repositories.AspectRepository,
	deferrer Deferrer,
	logger *slog.Logger,
) services.ConversationService {
	return &conversationService{
		conversations: conversations,
		people:        people,
		aspects:       aspects,
		deferrer:      deferrer,
		sanitizer:     content.NewSanitizer(),
		logger:        logger,
	}
}

// List retrieves the caller's conversations
func (s *conversationService) List(ctx context.Context, caller *auth.Caller, filter repositories.ConversationFilter, q paging.TimeQuery) ([]models.Conversation, error) {
	conversations, err := s.conversations.ListForPerson(ctx, caller.PersonID, filter, q)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// Find retrieves one of the caller's conversations
func (s *conversationService) Find(ctx context.Context, caller *auth.Caller, guid string) (*models.Conversation, error) {
	conversation, err := s.conversations.GetByGUID(ctx, guid, caller.PersonID)
	if err != nil {
		return nil, err
	}
	single := []models.Conversation{*conversation}
	if err := s.hydrate(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Create starts a conversation with the given recipients
func (s *conversationService) Create(ctx context.Context, caller *auth.Caller, req *services.CreateConversationRequest) (*models.Conversation, error) {
	req.Subject = s.sanitizer.Text(req.Subject)
	req.Body = s.sanitizer.Text(req.Body)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Subject, validation.Required, validation.RuneLength(1, config.MaxConversationSubjectLength)),
		validation.Field(&req.Body, validation.Required, validation.RuneLength(1, config.MaxCommentLength)),
		validation.Field(&req.Recipients, validation.Required, validation.Each(validation.Required)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	participants := []string{caller.PersonID}
	seen := map[string]bool{caller.PersonID: true}
	for _, ref := range req.Recipients {
		person, err := s.resolveRecipient(ctx, ref)
		if err != nil {
			return nil, err
		}
		// Each recipient must add exactly one new participant
		if seen[person.ID] {
			return nil, fmt.Errorf("%w: duplicate recipient %s", domain.ErrValidation, ref)
		}
		seen[person.ID] = true

		contact, err := s.aspects.IsContact(ctx, caller.PersonID, person.ID)
		if err != nil {
			return nil, fmt.Errorf("check contact: %w", err)
		}
		if !contact {
			return nil, fmt.Errorf("recipient %s: %w", ref, domain.ErrNotAContact)
		}
		participants = append(participants, person.ID)
	}

	created := now()
	conversation := &models.Conversation{
		GUID:           uuid.NewString(),
		Subject:        req.Subject,
		AuthorID:       caller.PersonID,
		ParticipantIDs: participants,
		CreatedAt:      created,
	}
	first := &models.Message{
		GUID:      uuid.NewString(),
		AuthorID:  caller.PersonID,
		Text:      req.Body,
		CreatedAt: created,
	}

	if err := s.conversations.Create(ctx, conversation, first); err != nil {
		return nil, err
	}

	single := []models.Conversation{*conversation}
	if err := s.hydrate(ctx, single); err != nil {
		return nil, err
	}
	conversation = &single[0]

	s.logger.Info("conversation created",
		"guid", conversation.GUID,
		"author_id", caller.PersonID,
		"participants", len(participants),
	)

	recipients := make([]string, 0, len(conversation.Participants))
	for _, p := range conversation.Participants {
		if p.ID != caller.PersonID {
			recipients = append(recipients, p.GUID)
		}
	}
	s.deferrer.Defer(ctx, federation.Job{
		SenderGUID: caller.GUID,
		EntityType: federation.EntityConversation,
		EntityGUID: conversation.GUID,
		Recipients: recipients,
	})

	return conversation, nil
}

// Hide removes the caller's visibility of a conversation
func (s *conversationService) Hide(ctx context.Context, caller *auth.Caller, guid string) error {
	hidden, err := s.conversations.Hide(ctx, guid, caller.PersonID)
	if err != nil {
		return err
	}
	if !hidden {
		return fmt.Errorf("conversation %s: %w", guid, domain.ErrConversationNotFound)
	}

	s.logger.Info("conversation hidden",
		"guid", guid,
		"person_id", caller.PersonID,
	)
	return nil
}

// resolveRecipient looks a recipient up by GUID, then by diaspora handle.
func (s *conversationService) resolveRecipient(ctx context.Context, ref string) (*models.Person, error) {
	person, err := s.people.GetByGUID(ctx, ref)
	if err == nil {
		return person, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	person, err = s.people.GetByHandle(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("recipient %s: %w", ref, domain.ErrRecipientNotFound)
		}
		return nil, err
	}
	return person, nil
}

func (s *conversationService) hydrate(ctx context.Context, conversations []models.Conversation) error {
	var ids []string
	for _, c := range conversations {
		ids = append(ids, c.ParticipantIDs...)
	}
	if len(ids) == 0 {
		return nil
	}
	people, err := s.people.ListByIDs(ctx, unique(ids))
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	byID := make(map[string]models.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}
	for i := range conversations {
		conversations[i].Participants = pick(byID, conversations[i].ParticipantIDs)
	}
	return nil
}
