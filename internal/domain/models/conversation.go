package models

import "time"

type Conversation struct {
	ID        int64     `db:"id"`
	GUID      string    `db:"guid"`
	Subject   string    `db:"subject"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`

	ParticipantIDs []string
	Unread         int `db:"unread"` // Unread count of the viewing participant

	// Hydrated by the service layer
	Participants []Person
}

type Message struct {
	ID             int64     `db:"id"`
	GUID           string    `db:"guid"`
	ConversationID int64     `db:"conversation_id"`
	AuthorID       string    `db:"author_id"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
}
