package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/federation"
)


func TestConversationService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.conversations.Create(ctx, fullCaller(f.alice), &services.CreateConversationRequest{
		Subject:    "Lunch?",
		Body:       "Noon at the usual place",
		Recipients: []string{"BOB@pod.example"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lunch?", conv.Subject)
	require.Len(t, conv.Participants, 2)

	job := f.deferrer.last(t)
	assert.Equal(t, federation.EntityConversation, job.EntityType)
	assert.Equal(t, []string{f.bob.GUID}, job.Recipients)

	// Bob sees it as unread, Carol not at all
	got, err := f.conversations.Find(ctx, fullCaller(f.bob), conv.GUID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Unread)

	_, err = f.conversations.Find(ctx, fullCaller(f.carol), conv.GUID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestConversationService_CreateRejectsRecipients(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		recipients []string
		wantErr    error
	}{
		{name: "none", recipients: nil, wantErr: domain.ErrValidation},
		{name: "unknown", recipients: []string{"nobody@pod.example"}, wantErr: domain.ErrRecipientNotFound},
		{name: "not a contact", recipients: []string{f.carol.GUID}, wantErr: domain.ErrNotAContact},
		{name: "duplicate", recipients: []string{f.bob.GUID, "bob@pod.example"}, wantErr: domain.ErrValidation},
		{name: "self", recipients: []string{f.alice.GUID}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.conversations.Create(context.Background(), fullCaller(f.alice), &services.CreateConversationRequest{
				Subject:    "Hi",
				Body:       "there",
				Recipients: tt.recipients,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 422, domain.StatusCode(err))
		})
	}
}

func TestConversationService_ListAndHide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.conversations.Create(ctx, fullCaller(f.alice), &services.CreateConversationRequest{
		Subject: "Hi", Body: "there", Recipients: []string{f.bob.GUID},
	})
	require.NoError(t, err)

	unread, err := f.conversations.List(ctx, fullCaller(f.bob), repositories.ConversationFilter{OnlyUnread: true}, latest())
	require.NoError(t, err)
	require.Len(t, unread, 1)

	// The author has nothing unread
	unread, err = f.conversations.List(ctx, fullCaller(f.alice), repositories.ConversationFilter{OnlyUnread: true}, latest())
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, f.conversations.Hide(ctx, fullCaller(f.bob), conv.GUID))
	err = f.conversations.Hide(ctx, fullCaller(f.bob), conv.GUID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	visible, err := f.conversations.List(ctx, fullCaller(f.bob), repositories.ConversationFilter{}, latest())
	require.NoError(t, err)
	assert.Empty(t, visible)

	// Hiding is per participant
	_, err = f.conversations.Find(ctx, fullCaller(f.alice), conv.GUID)
	assert.NoError(t, err)
}
