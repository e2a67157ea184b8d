package stub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleChat serves /ws/chat/{id}/?token=... — query-string token auth,
// membership check, then a broadcast loop for {"message": text} frames.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.dials.Add(1)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusBadRequest)
		return
	}
	userID, err := s.parseToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	st, found := s.rooms[id]
	acc := s.accountsByID[userID]
	var member bool
	if found && acc != nil {
		member = st.room.HasMember(acc.username)
	}
	s.mu.Unlock()
	if !found {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if acc == nil || !member {
		http.Error(w, "not a member of room", http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &conn{ws: ws, send: make(chan []byte, 256), userID: userID}
	st.hub.register <- c
	go c.startWrite()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			break
		}
		var frame struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Message == "" {
			ack, _ := json.Marshal(map[string]string{"ack": "ignored"})
			c.send <- ack
			continue
		}
		msg := s.appendMessage(st, acc, frame.Message)
		out, _ := json.Marshal(map[string]models.Message{"message": msg})
		st.hub.broadcast <- out
	}
	st.hub.unregister <- c
	ws.Close()
}

// appendMessage persists one chat line and returns it with its id.
func (s *Server) appendMessage(st *roomState, acc *account, content string) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMsgID++
	msg := models.Message{
		ID:        s.nextMsgID,
		User:      models.User{ID: acc.id, Username: acc.username},
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	st.messages = append(st.messages, msg)
	return msg
}

// BroadcastRaw pushes an arbitrary frame to every connection of a
// room. Tests use it to exercise unknown-frame handling.
func (s *Server) BroadcastRaw(roomID int64, raw []byte) {
	s.mu.Lock()
	st, found := s.rooms[roomID]
	s.mu.Unlock()
	if found {
		st.hub.broadcast <- raw
	}
}

// BroadcastMessage persists a message as username and fans it out, as
// if another member had sent it from a second client.
func (s *Server) BroadcastMessage(roomID int64, username, content string) (models.Message, bool) {
	s.mu.Lock()
	st, found := s.rooms[roomID]
	acc := s.accounts[username]
	s.mu.Unlock()
	if !found || acc == nil {
		return models.Message{}, false
	}
	msg := s.appendMessage(st, acc, content)
	out, _ := json.Marshal(map[string]models.Message{"message": msg})
	st.hub.broadcast <- out
	return msg, true
}
