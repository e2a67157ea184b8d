package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// RoomSnapshot is the combined payload of GET /rooms/{id}/: room
// metadata plus the full message history.
type RoomSnapshot struct {
	Room     models.Room      `json:"room"`
	Messages []models.Message `json:"messages"`
}

// FetchRoom loads one room's snapshot. The shape is validated at the
// boundary: a snapshot without a room id or with messages missing a
// sender is malformed, not trusted.
func (c *Client) FetchRoom(ctx context.Context, roomID int64) (*RoomSnapshot, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var snap RoomSnapshot
	path := fmt.Sprintf("/rooms/%d/", roomID)
	if err := c.do(ctx, http.MethodGet, path, nil, &snap); err != nil {
		return nil, err
	}
	if snap.Room.ID == 0 || snap.Room.Name == "" {
		return nil, fmt.Errorf("%w: room snapshot missing id or name", ErrDecode)
	}
	for _, m := range snap.Messages {
		if m.User.Username == "" {
			return nil, fmt.Errorf("%w: message %d has no sender", ErrDecode, m.ID)
		}
	}
	return &snap, nil
}

// ListRooms returns the viewer's rooms, or popular rooms when the
// viewer has joined none.
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := c.do(ctx, http.MethodGet, "/rooms/", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

type CreateRoomRequest struct {
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	Description string `json:"description,omitempty"`
}

// CreateRoom creates a room with the viewer as host.
func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if req.Name == "" || req.Topic == "" {
		return nil, fmt.Errorf("room name and topic are required")
	}
	var room models.Room
	if err := c.do(ctx, http.MethodPost, "/rooms/create/", req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom patches a room's metadata. Host only; anyone else gets an
// auth error back from the server.
func (c *Client) UpdateRoom(ctx context.Context, roomID int64, req CreateRoomRequest) (*models.Room, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var room models.Room
	path := fmt.Sprintf("/rooms/%d/", roomID)
	if err := c.do(ctx, http.MethodPatch, path, req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room. Host only.
func (c *Client) DeleteRoom(ctx context.Context, roomID int64) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d/", roomID), nil, nil)
}

// JoinRoom adds the viewer to the room's member roster. Any non-2xx
// is surfaced as-is; the caller decides what joined means locally.
func (c *Client) JoinRoom(ctx context.Context, roomID int64) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%d/join/", roomID), nil, nil)
}

// SearchRooms finds rooms whose name or topic matches query.
func (c *Client) SearchRooms(ctx context.Context, query string) ([]models.RoomSummary, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	var results []models.RoomSummary
	path := "/rooms/search/?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// RecentActivities returns the latest messages across all rooms.
func (c *Client) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var acts []models.Activity
	path := "/rooms/recent/?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &acts); err != nil {
		return nil, err
	}
	return acts, nil
}
