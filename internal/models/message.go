package models

import "time"

// Message is one chat line. Append-only; ordering is arrival order.
type Message struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
