package database

import (
	"time"
)

// UserEvent is a user-created note pinned to a calendar date.
// Events never expire; they live until deleted by id.
type UserEvent struct {
	ID         string    `json:"id"`
	StorageKey string    `json:"-"`
	Date       string    `json:"date_iso"` // YYYY-MM-DD
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}
