package stub

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"syreclabs.com/go/faker"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// register creates an account with a bcrypt-hashed password.
func (s *Server) register(username, email, password string) *account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	acc := &account{
		id:           s.nextUserID,
		username:     username,
		email:        email,
		passwordHash: hash,
	}
	s.accounts[username] = acc
	s.accountsByID[acc.id] = acc
	return acc
}

// Register creates an account and returns its public user record.
// For tests and seeding.
func (s *Server) Register(username, email, password string) models.User {
	acc := s.register(username, email, password)
	return models.User{ID: acc.id, Username: acc.username}
}

// TokenFor returns a valid bearer token for an existing account.
func (s *Server) TokenFor(username string) (string, bool) {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		return "", false
	}
	return s.issueToken(acc.id), true
}

func (s *Server) addRoom(name, topic, description string, host *account) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRoomID++
	hostUser := models.User{ID: host.id, Username: host.username}
	room := models.Room{
		ID:          s.nextRoomID,
		Name:        name,
		Topic:       topic,
		Description: description,
		Host:        hostUser,
		Members:     []models.User{hostUser},
		CreatedAt:   time.Now().UTC(),
	}
	s.rooms[room.ID] = &roomState{room: room, hub: newHub()}
	return room
}

// AddRoom creates a room hosted by username. For tests and seeding.
func (s *Server) AddRoom(name, topic, description, hostUsername string) (models.Room, bool) {
	s.mu.Lock()
	host, ok := s.accounts[hostUsername]
	s.mu.Unlock()
	if !ok {
		return models.Room{}, false
	}
	return s.addRoom(name, topic, description, host), true
}

// AddMember puts an existing account on a room's roster without going
// through the join endpoint.
func (s *Server) AddMember(roomID int64, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, found := s.rooms[roomID]
	acc := s.accounts[username]
	if !found || acc == nil || st.room.HasMember(username) {
		return false
	}
	st.room.Members = append(st.room.Members, models.User{ID: acc.id, Username: acc.username})
	return true
}

// AddMessage appends one history line without broadcasting it.
func (s *Server) AddMessage(roomID int64, username, content string) (models.Message, bool) {
	s.mu.Lock()
	st, found := s.rooms[roomID]
	acc := s.accounts[username]
	s.mu.Unlock()
	if !found || acc == nil {
		return models.Message{}, false
	}
	return s.appendMessage(st, acc, content), true
}

// AddTeacher registers a reviewable professor with courses.
func (s *Server) AddTeacher(name string, courses ...string) models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Teacher{ID: int64(len(s.teachers) + 1), Name: name}
	for i, c := range courses {
		t.Courses = append(t.Courses, models.Course{ID: int64(i + 1), Name: c})
	}
	s.teachers = append(s.teachers, t)
	return t
}

// Seed fills the world with fake accounts and rooms so the stub is
// usable straight away in offline mode.
func (s *Server) Seed(nRooms int) {
	for i := 0; i < nRooms; i++ {
		host := s.register(faker.Internet().UserName(), faker.Internet().Email(), faker.Internet().Password(8, 14))
		room := s.addRoom(faker.Company().Name(), faker.Hacker().Noun(), faker.Lorem().Sentence(5), host)
		s.mu.Lock()
		st := s.rooms[room.ID]
		s.mu.Unlock()
		for j := 0; j < 3; j++ {
			s.appendMessage(st, host, faker.Lorem().Sentence(4))
		}
	}
	s.AddTeacher(faker.Name().Name(), "Operating Systems", "Databases")
	s.AddTeacher(faker.Name().Name(), "Linear Algebra")
}
