package models

import "time"

// ActivityRoom and ActivityUser are the trimmed refs carried by the
// recent-activity feed.
type ActivityRoom struct {
	RoomID   int64  `json:"room_id"`
	RoomName string `json:"room_name"`
}

type ActivityUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Activity is one entry of GET /rooms/recent/.
type Activity struct {
	MessageID int64        `json:"message_id"`
	Content   string       `json:"content"`
	Room      ActivityRoom `json:"room"`
	User      ActivityUser `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}
