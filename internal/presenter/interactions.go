package presenter

import (
	"time"

	"podium/internal/domain/models"
)

// CommentResponse represents a comment
type CommentResponse struct {
	GUID            string           `json:"guid"`
	Body            string           `json:"body"`
	CreatedAt       time.Time        `json:"created_at"`
	Author          *PersonResponse  `json:"author"`
	MentionedPeople []PersonResponse `json:"mentioned_people"`
}

func Comment(c models.Comment) CommentResponse {
	return CommentResponse{
		GUID:            c.GUID,
		Body:            c.Text,
		CreatedAt:       c.CreatedAt.UTC(),
		Author:          Person(c.Author),
		MentionedPeople: People(c.MentionedPeople),
	}
}

// LikeResponse represents a like
type LikeResponse struct {
	GUID   string          `json:"guid"`
	Author *PersonResponse `json:"author"`
}

func Like(l models.Like) LikeResponse {
	return LikeResponse{GUID: l.GUID, Author: Person(l.Author)}
}

// ConversationResponse represents a conversation from one participant's view
type ConversationResponse struct {
	GUID         string           `json:"guid"`
	Subject      string           `json:"subject"`
	CreatedAt    time.Time        `json:"created_at"`
	Read         bool             `json:"read"`
	Participants []PersonResponse `json:"participants"`
}

func Conversation(c models.Conversation) ConversationResponse {
	return ConversationResponse{
		GUID:         c.GUID,
		Subject:      c.Subject,
		CreatedAt:    c.CreatedAt.UTC(),
		Read:         c.Unread == 0,
		Participants: People(c.Participants),
	}
}

// AspectSummary is the aspect entry of an aspect listing
type AspectSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func AspectSummaries(aspects []models.Aspect) []AspectSummary {
	out := make([]AspectSummary, 0, len(aspects))
	for _, a := range aspects {
		out = append(out, AspectSummary{ID: a.ID, Name: a.Name, Order: a.Order})
	}
	return out
}

// AspectResponse is the full representation of an aspect
type AspectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Order       int    `json:"order"`
	ChatEnabled bool   `json:"chat_enabled"`
}

func Aspect(a *models.Aspect) AspectResponse {
	return AspectResponse{
		ID:          a.ID,
		Name:        a.Name,
		Order:       a.Order,
		ChatEnabled: a.ChatEnabled,
	}
}
