package models

import "time"

type Person struct {
	ID             string    `db:"id"`
	GUID           string    `db:"guid"`
	DiasporaHandle string    `db:"diaspora_handle"` // user@pod
	Name           string    `db:"name"`
	AvatarURL      string    `db:"avatar_url"`
	Local          bool      `db:"local"` // Local people hold accounts and can be issued tokens
	CreatedAt      time.Time `db:"created_at"`
}
