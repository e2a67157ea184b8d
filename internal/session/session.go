package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abdullahilyas48/ConvoHub/internal/api"
	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// RoomAPI is the slice of the REST client the session needs.
type RoomAPI interface {
	FetchRoom(ctx context.Context, roomID int64) (*api.RoomSnapshot, error)
	JoinRoom(ctx context.Context, roomID int64) error
}

// EventKind tags session events delivered to the consumer.
type EventKind int

const (
	// EventSnapshot: room metadata or history changed after a fetch.
	EventSnapshot EventKind = iota
	// EventMessage: one new message arrived over the stream.
	EventMessage
	// EventConnError: the transport died; re-join to get a new one.
	EventConnError
)

// Event is one session change notification.
type Event struct {
	Kind    EventKind
	Message *models.Message
	Err     error
}

// Params wires a session together. Everything is passed explicitly;
// there is no ambient auth or config lookup.
type Params struct {
	RoomID int64
	Viewer string // current user's username, for roster checks
	Token  string
	WSBase string // ws://host, no trailing slash
	API    RoomAPI
	Store  JoinedStore
	Log    logrus.FieldLogger
}

// Session owns everything for one open room view: the snapshot, the
// message log, the membership state and the single live connection.
// Destroy it with Close; results of fetches still in flight after
// Close are discarded.
type Session struct {
	roomID int64
	token  string
	wsBase string
	rest   RoomAPI
	log    logrus.FieldLogger

	msgs       *MessageLog
	membership *Membership
	conn       *Conn

	mu     sync.Mutex
	room   *models.Room
	closed bool

	events chan Event
}

// New builds an idle session for one room. Call Start to load it.
func New(p Params) *Session {
	s := &Session{
		roomID:     p.RoomID,
		token:      p.Token,
		wsBase:     p.WSBase,
		rest:       p.API,
		log:        p.Log.WithField("room", p.RoomID),
		msgs:       NewMessageLog(),
		membership: NewMembership(p.RoomID, p.Viewer, p.Store),
		events:     make(chan Event, 32),
	}
	s.conn = NewConn(s.log, s.handleMessage, s.handleConnError)
	return s
}

// Events delivers change notifications. Slow consumers lose events
// rather than blocking the stream.
func (s *Session) Events() <-chan Event { return s.events }

// Room returns the last fetched room snapshot, nil before Start.
func (s *Session) Room() *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// Messages returns the current log contents in order.
func (s *Session) Messages() []models.Message { return s.msgs.Messages() }

// Joined reports the membership state.
func (s *Session) Joined() bool { return s.membership.Joined() }

// ConnState reports the connection lifecycle state.
func (s *Session) ConnState() State { return s.conn.State() }

// Start fetches the room snapshot, derives membership and, when the
// viewer is already joined, dials the stream. Exactly one dial happens
// per Start.
func (s *Session) Start(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		return err
	}
	s.membership.Refresh(s.Room())
	if !s.membership.Joined() {
		return nil
	}
	if err := s.conn.Open(ctx, s.chatURL()); err != nil {
		return fmt.Errorf("open room stream: %w", err)
	}
	return nil
}

// Join sends the join request. On success the flag is persisted, the
// snapshot is refetched for the updated roster (the only roster
// refresh path), and the stream is dialed. On any failure the viewer
// stays not-joined and no dial is attempted.
func (s *Session) Join(ctx context.Context) error {
	if s.membership.Joined() {
		return nil
	}
	if err := s.rest.JoinRoom(ctx, s.roomID); err != nil {
		return err
	}
	if err := s.membership.MarkJoined(); err != nil {
		s.log.WithError(err).Warn("could not persist joined flag")
	}
	if err := s.refresh(ctx); err != nil {
		s.log.WithError(err).Warn("post-join refetch failed")
	}
	if err := s.conn.Open(ctx, s.chatURL()); err != nil {
		return fmt.Errorf("open room stream: %w", err)
	}
	return nil
}

// Send transmits one chat message over the stream and refetches the
// snapshot to reconcile what the server persisted. Blank input is
// refused before anything leaves the client.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if err := s.conn.Send(text); err != nil {
		return err
	}
	if err := s.refresh(ctx); err != nil {
		s.log.WithError(err).Warn("post-send refetch failed")
	}
	return nil
}

// Close tears the session down: the connection is closed on every exit
// path and late fetch results are dropped. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.conn.Close()
}

func (s *Session) chatURL() string {
	return fmt.Sprintf("%s/ws/chat/%d/?token=%s", s.wsBase, s.roomID, s.token)
}

// refresh fetches the snapshot and replaces room + history. Results
// arriving after Close are discarded.
func (s *Session) refresh(ctx context.Context) error {
	snap, err := s.rest.FetchRoom(ctx, s.roomID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.room = &snap.Room
	s.mu.Unlock()

	s.msgs.LoadInitial(snap.Messages)
	s.emit(Event{Kind: EventSnapshot})
	return nil
}

// handleMessage runs on the connection's read loop for each inbound
// chat message: append (merged by id) and reconcile with a refetch.
func (s *Session) handleMessage(m models.Message) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	if s.msgs.Append(m) {
		s.emit(Event{Kind: EventMessage, Message: &m})
	}
	go func() {
		if err := s.refresh(context.Background()); err != nil {
			s.log.WithError(err).Warn("post-message refetch failed")
		}
	}()
}

func (s *Session) handleConnError(err error) {
	s.emit(Event{Kind: EventConnError, Err: err})
}

// emit pushes an event without ever blocking the producer.
func (s *Session) emit(ev Event) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.log.Debug("event dropped, consumer too slow")
	}
}
