// Package session implements the client side of one open room view:
// the websocket connection, the ordered message log, the membership
// state and the controller tying them to the REST client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// State is the connection lifecycle:
// Disconnected -> Connecting -> Open -> Closed | Errored.
// Closed and Errored are terminal until a fresh Open call.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

var (
	// ErrNotOpen is returned by Send when the connection is not Open.
	ErrNotOpen = errors.New("connection is not open")
	// ErrEmptyMessage is returned by Send for blank input; nothing is
	// transmitted.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrConnBusy is returned by Open while a connection is already
	// connecting or open.
	ErrConnBusy = errors.New("connection already active")
)

// outboundFrame is the only frame the client sends: {"message": text}.
type outboundFrame struct {
	Message string `json:"message"`
}

// inboundFrame is the expected inbound shape. Frames without a message
// object are unknown kinds and get dropped, not raised; the stream must
// survive frames this client version does not know.
type inboundFrame struct {
	Message *models.Message `json:"message"`
}

// Conn maintains one live websocket to a room's chat channel. There is
// no reconnect anywhere: an errored connection stays errored until the
// owner dials a fresh one (explicit re-join or view reload).
type Conn struct {
	log       logrus.FieldLogger
	onMessage func(models.Message)
	onError   func(error)

	mu    sync.Mutex
	ws    *websocket.Conn
	state State
}

// NewConn builds an unopened connection. onMessage receives every
// inbound chat message; onError fires once if the transport dies.
func NewConn(log logrus.FieldLogger, onMessage func(models.Message), onError func(error)) *Conn {
	return &Conn{
		log:       log,
		onMessage: onMessage,
		onError:   onError,
		state:     StateDisconnected,
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open dials wsURL (ws://.../ws/chat/{roomID}/?token=...) and starts
// the read loop. Only legal from Disconnected or a terminal state.
func (c *Conn) Open(ctx context.Context, wsURL string) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateOpen {
		c.mu.Unlock()
		return ErrConnBusy
	}
	c.state = StateConnecting
	c.mu.Unlock()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		c.mu.Lock()
		c.state = StateErrored
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.ws = ws
	c.state = StateOpen
	c.mu.Unlock()

	go c.readLoop(ws)
	return nil
}

// Send transmits {"message": text}. It does not wait for any ack; the
// message comes back over the stream or via the next room refetch.
func (c *Conn) Send(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateOpen || c.ws == nil {
		return ErrNotOpen
	}
	return c.ws.WriteJSON(outboundFrame{Message: text})
}

// Close tears the connection down. Safe to call on every exit path and
// any number of times; an errored connection stays errored.
func (c *Conn) Close() error {
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	if c.state != StateErrored {
		c.state = StateClosed
	}
	c.mu.Unlock()

	if ws != nil {
		return ws.Close()
	}
	return nil
}

// readLoop pulls frames until the transport dies. Malformed frames are
// logged and skipped; a read error while still Open marks the
// connection Errored and notifies the owner once.
func (c *Conn) readLoop(ws *websocket.Conn) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasOpen := c.state == StateOpen && c.ws == ws
			if wasOpen {
				c.state = StateErrored
				c.ws = nil
			}
			c.mu.Unlock()
			if wasOpen {
				_ = ws.Close()
				c.log.WithError(err).Warn("websocket read failed")
				if c.onError != nil {
					c.onError(err)
				}
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.WithError(err).Warn("dropping malformed frame")
			continue
		}
		if frame.Message == nil {
			c.log.WithField("frame", string(raw)).Warn("dropping unknown frame kind")
			continue
		}
		if c.onMessage != nil {
			c.onMessage(*frame.Message)
		}
	}
}
