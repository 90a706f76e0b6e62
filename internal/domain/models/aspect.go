package models

import "time"

type Aspect struct {
	ID          int64     `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Name        string    `db:"name"`
	Order       int       `db:"order_id"`
	ChatEnabled bool      `db:"chat_enabled"`
	CreatedAt   time.Time `db:"created_at"`
}
