package stub

import (
	"sync"

	"github.com/gorilla/websocket"
)

// conn is one websocket subscriber of a room.
type conn struct {
	ws     *websocket.Conn
	send   chan []byte
	userID int64
}

// startWrite drains the send channel onto the socket.
func (c *conn) startWrite() {
	defer c.ws.Close()
	for msg := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// hub fans frames out to every connection of one room.
type hub struct {
	register   chan *conn
	unregister chan *conn
	broadcast  chan []byte

	mu    sync.Mutex
	conns map[*conn]bool
}

func newHub() *hub {
	h := &hub{
		register:   make(chan *conn),
		unregister: make(chan *conn),
		broadcast:  make(chan []byte),
		conns:      make(map[*conn]bool),
	}
	go h.run()
	return h
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.conns[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[c]; ok {
				delete(h.conns, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.conns {
				select {
				case c.send <- msg:
				default:
					// full buffer, drop the connection
					delete(h.conns, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}
