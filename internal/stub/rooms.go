package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rooms := make([]models.Room, 0, len(s.rooms))
	for _, st := range s.rooms {
		rooms = append(rooms, st.room)
	}
	s.mu.Unlock()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	writeJSON(w, http.StatusOK, apiResponse{Data: rooms, Message: "rooms fetched successfully"})
}

func (s *Server) handleRoomDetail(w http.ResponseWriter, r *http.Request) {
	s.roomFetches.Add(1)
	id, ok := roomID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid room id"})
		return
	}
	s.mu.Lock()
	st, found := s.rooms[id]
	var snap map[string]any
	if found {
		msgs := make([]models.Message, len(st.messages))
		copy(msgs, st.messages)
		snap = map[string]any{"room": st.room, "messages": msgs}
	}
	s.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusNotFound, apiResponse{Message: "room not found"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Data: snap, Message: "room details and messages fetched successfully"})
}

type roomRequest struct {
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "name and topic are required"})
		return
	}
	room := s.addRoom(req.Name, req.Topic, req.Description, acc)
	writeJSON(w, http.StatusOK, apiResponse{Data: room, Message: "room created successfully"})
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	id, _ := roomID(r)
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, found := s.rooms[id]
	if !found {
		writeJSON(w, http.StatusNotFound, apiResponse{Message: "room not found"})
		return
	}
	if st.room.Host.ID != acc.id {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "only the host can update this room"})
		return
	}
	if req.Name != "" {
		st.room.Name = req.Name
	}
	if req.Topic != "" {
		st.room.Topic = req.Topic
	}
	if req.Description != "" {
		st.room.Description = req.Description
	}
	writeJSON(w, http.StatusOK, apiResponse{Data: st.room, Message: "room updated successfully"})
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	id, _ := roomID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	st, found := s.rooms[id]
	if !found {
		writeJSON(w, http.StatusNotFound, apiResponse{Message: "room not found"})
		return
	}
	if st.room.Host.ID != acc.id {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "only the host can delete this room"})
		return
	}
	delete(s.rooms, id)
	writeJSON(w, http.StatusOK, apiResponse{Data: map[string]any{}, Message: "room deleted successfully"})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	s.joinCalls.Add(1)
	if code := s.FailJoinsWith.Load(); code != 0 {
		writeJSON(w, int(code), apiResponse{Message: "join rejected"})
		return
	}
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	id, _ := roomID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	st, found := s.rooms[id]
	if !found {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "room not found"})
		return
	}
	if st.room.HasMember(acc.username) {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "you are already a member of this room"})
		return
	}
	st.room.Members = append(st.room.Members, models.User{ID: acc.id, Username: acc.username})
	writeJSON(w, http.StatusOK, apiResponse{
		Data:    map[string]any{"room_id": st.room.ID, "room_name": st.room.Name},
		Message: "you have successfully joined the room",
	})
}

func (s *Server) handleSearchRooms(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "query parameter is required"})
		return
	}
	s.mu.Lock()
	var results []models.RoomSummary
	for _, st := range s.rooms {
		if strings.Contains(strings.ToLower(st.room.Name), query) ||
			strings.Contains(strings.ToLower(st.room.Topic), query) {
			results = append(results, models.RoomSummary{
				RoomID:       st.room.ID,
				RoomName:     st.room.Name,
				Topic:        st.room.Topic,
				Description:  st.room.Description,
				Host:         st.room.Host.Username,
				MembersCount: len(st.room.Members),
				CreatedAt:    st.room.CreatedAt,
			})
		}
	}
	s.mu.Unlock()
	sort.Slice(results, func(i, j int) bool { return results[i].RoomID < results[j].RoomID })
	writeJSON(w, http.StatusOK, apiResponse{Data: results, Message: strconv.Itoa(len(results)) + " room(s) found"})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, apiResponse{Message: "limit parameter must be greater than 0"})
			return
		}
		limit = n
	}
	s.mu.Lock()
	var acts []models.Activity
	for _, st := range s.rooms {
		for _, m := range st.messages {
			acts = append(acts, models.Activity{
				MessageID: m.ID,
				Content:   m.Content,
				Room:      models.ActivityRoom{RoomID: st.room.ID, RoomName: st.room.Name},
				User:      models.ActivityUser{UserID: m.User.ID, Username: m.User.Username},
				CreatedAt: m.CreatedAt,
			})
		}
	}
	s.mu.Unlock()
	sort.Slice(acts, func(i, j int) bool { return acts[i].MessageID > acts[j].MessageID })
	if len(acts) > limit {
		acts = acts[:limit]
	}
	writeJSON(w, http.StatusOK, apiResponse{Data: acts, Message: "recent activities fetched"})
}
