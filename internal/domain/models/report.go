package models

import "time"

const ReportItemComment = "Comment"

type Report struct {
	ID         int64     `db:"id"`
	ReporterID string    `db:"reporter_id"`
	ItemType   string    `db:"item_type"`
	ItemID     int64     `db:"item_id"`
	Text       string    `db:"text"`
	CreatedAt  time.Time `db:"created_at"`
}
