package models

import "time"

type Comment struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"item_id"`
	AuthorID int64     `json:"author_id"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`

	// AuthorName is filled by queries joining the users table.
	AuthorName string `json:"author_name,omitempty"`
}
