package models

import "time"

type Like struct {
	ID        int64     `db:"id"`
	GUID      string    `db:"guid"`
	PostID    int64     `db:"post_id"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`

	Author *Person
}
