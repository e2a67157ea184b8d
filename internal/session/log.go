package session

import (
	"sync"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// MessageLog holds the ordered messages of the current room view.
// Appends merge by id so a message arriving both over the stream and
// in a refetched history shows up once.
type MessageLog struct {
	mu   sync.Mutex
	msgs []models.Message
	seen map[int64]struct{}
}

func NewMessageLog() *MessageLog {
	return &MessageLog{seen: make(map[int64]struct{})}
}

// LoadInitial replaces the log with server-provided history.
func (l *MessageLog) LoadInitial(msgs []models.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = make([]models.Message, len(msgs))
	copy(l.msgs, msgs)
	l.seen = make(map[int64]struct{}, len(msgs))
	for _, m := range msgs {
		if m.ID != 0 {
			l.seen[m.ID] = struct{}{}
		}
	}
}

// Append adds m to the end and reports whether it was new. Messages
// with an id already present are dropped; id 0 (not yet persisted
// server-side) is always appended.
func (l *MessageLog) Append(m models.Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m.ID != 0 {
		if _, dup := l.seen[m.ID]; dup {
			return false
		}
		l.seen[m.ID] = struct{}{}
	}
	l.msgs = append(l.msgs, m)
	return true
}

// Messages returns a copy of the log in order.
func (l *MessageLog) Messages() []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of messages held.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}
