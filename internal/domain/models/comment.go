package models

import "time"

type Comment struct {
	ID        int64     `db:"id"`
	GUID      string    `db:"guid"`
	PostID    int64     `db:"post_id"`
	AuthorID  string    `db:"author_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`

	MentionedIDs []string

	// Hydrated by the service layer
	Author          *Person
	MentionedPeople []Person
}
