package session

import (
	"sync"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// JoinedStore persists the per-room joined flag across runs. Satisfied
// by *store.Store.
type JoinedStore interface {
	Joined(roomID int64) (bool, error)
	MarkJoined(roomID int64) error
}

// Membership tracks whether the viewer belongs to the room. Joined is
// true when the roster lists the viewer or a flag for this room was
// persisted earlier; once true it stays true for the session (there is
// no leave operation on the platform).
type Membership struct {
	roomID int64
	viewer string
	store  JoinedStore

	mu     sync.Mutex
	joined bool
}

func NewMembership(roomID int64, viewer string, store JoinedStore) *Membership {
	return &Membership{roomID: roomID, viewer: viewer, store: store}
}

// Joined returns the current joined state.
func (m *Membership) Joined() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joined
}

// Refresh re-derives joined from the fetched roster and the persisted
// flag. Store read errors degrade to the roster alone.
func (m *Membership) Refresh(room *models.Room) {
	persisted := false
	if m.store != nil {
		persisted, _ = m.store.Joined(m.roomID)
	}
	inRoster := room != nil && room.HasMember(m.viewer)

	m.mu.Lock()
	m.joined = m.joined || persisted || inRoster
	m.mu.Unlock()
}

// MarkJoined flips the state to joined and persists the flag under the
// room id so it survives a restart.
func (m *Membership) MarkJoined() error {
	m.mu.Lock()
	m.joined = true
	m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	return m.store.MarkJoined(m.roomID)
}
