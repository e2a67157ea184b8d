package models

import "time"

// Room is one chat channel with its host and member roster.
// The server owns it; clients cache a copy per open room view.
type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Topic       string    `json:"topic"`
	Description string    `json:"description"`
	Host        User      `json:"host"`
	Members     []User    `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether username appears in the roster.
func (r *Room) HasMember(username string) bool {
	for _, m := range r.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}

// RoomSummary is the flattened shape returned by room search.
type RoomSummary struct {
	RoomID       int64     `json:"room_id"`
	RoomName     string    `json:"room_name"`
	Topic        string    `json:"topic"`
	Description  string    `json:"description"`
	Host         string    `json:"host"`
	MembersCount int       `json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
}
