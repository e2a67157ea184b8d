// Package stub is an in-process ConvoHub server: the same REST surface
// and chat channel the real backend exposes, held in memory. Tests run
// the client against it, and the `convohub stub` command serves it for
// offline use.
package stub

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

type account struct {
	id           int64
	username     string
	email        string
	bio          string
	passwordHash []byte
}

type roomState struct {
	room     models.Room
	messages []models.Message
	hub      *hub
}

// Server is the in-memory fake. All fields are guarded by mu except
// the counters, which tests read concurrently.
type Server struct {
	secret []byte
	log    logrus.FieldLogger
	router chi.Router

	mu           sync.Mutex
	accounts     map[string]*account
	accountsByID map[int64]*account
	rooms        map[int64]*roomState
	teachers     []models.Teacher
	reviews      []models.Review
	nextUserID   int64
	nextRoomID   int64
	nextMsgID    int64

	// FailJoinsWith, when non-zero, makes every join call answer with
	// that HTTP status. Tests use it to simulate rejections.
	FailJoinsWith atomic.Int64

	roomFetches atomic.Int64
	joinCalls   atomic.Int64
	dials       atomic.Int64
}

// New builds a stub with an empty world and the routes wired.
func New(log *logrus.Logger) *Server {
	s := &Server{
		secret:       []byte("stub-secret"),
		log:          log,
		accounts:     make(map[string]*account),
		accountsByID: make(map[int64]*account),
		rooms:        make(map[int64]*roomState),
	}

	r := chi.NewRouter()
	r.Use(logger.Logger("router", log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup/", s.handleSignup)
		r.Post("/login/", s.handleLogin)
		r.Post("/logout/", s.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authJWT)
		r.Get("/profile/", s.handleProfile)
		r.Put("/profile/", s.handleUpdateProfile)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Post("/create/", s.handleCreateRoom)
			r.Get("/search/", s.handleSearchRooms)
			r.Get("/recent/", s.handleRecent)
			r.Get("/{id}/", s.handleRoomDetail)
			r.Patch("/{id}/", s.handleUpdateRoom)
			r.Delete("/{id}/", s.handleDeleteRoom)
			r.Post("/{id}/join/", s.handleJoin)
		})

		r.Route("/review", func(r chi.Router) {
			r.Get("/teachers/", s.handleListTeachers)
			r.Get("/teacher-reviews/", s.handleListReviews)
			r.Post("/teacher-reviews/", s.handleSubmitReview)
		})
	})

	// chat channel authenticates via query token, like the real thing
	r.Get("/ws/chat/{id}/", s.handleChat)

	s.router = r
	return s
}

// Router exposes the handler for httptest or a real listener.
func (s *Server) Router() http.Handler { return s.router }

// RoomFetches counts GET /rooms/{id}/ calls.
func (s *Server) RoomFetches() int64 { return s.roomFetches.Load() }

// JoinCalls counts POST /rooms/{id}/join/ calls.
func (s *Server) JoinCalls() int64 { return s.joinCalls.Load() }

// Dials counts websocket connection attempts.
func (s *Server) Dials() int64 { return s.dials.Load() }

// apiResponse is the envelope the real backend wraps everything in.
type apiResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	if resp.Status == "" {
		if status < 300 {
			resp.Status = "success"
		} else {
			resp.Status = "error"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// authJWT validates the bearer header and hangs the user id on the
// request context.
func (s *Server) authJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "missing bearer token"})
			return
		}
		userID, err := s.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func (s *Server) viewer(r *http.Request) (*account, bool) {
	userID, ok := r.Context().Value(userIDKey).(int64)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accountsByID[userID]
	return acc, ok
}

func (s *Server) issueToken(userID int64) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token
}

func (s *Server) parseToken(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, jwt.ErrTokenMalformed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenMalformed
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, jwt.ErrTokenMalformed
	}
	return int64(userIDFloat), nil
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "username and password are required"})
		return
	}
	s.mu.Lock()
	_, exists := s.accounts[req.Username]
	s.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "username already taken"})
		return
	}
	acc := s.register(req.Username, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, apiResponse{
		Data: map[string]any{
			"access_token": s.issueToken(acc.id),
			"username":     acc.username,
		},
		Message: "account created",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}
	s.mu.Lock()
	acc, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "not registered"})
		return
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "incorrect password"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Data: map[string]any{
			"access_token": s.issueToken(acc.id),
			"username":     acc.username,
		},
		Message: "success",
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Data: map[string]any{}, Message: "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Data: models.Profile{Email: acc.email, Username: acc.username, Bio: acc.bio},
		Message: "profile retrieved",
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	var req struct {
		Bio string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}
	s.mu.Lock()
	acc.bio = req.Bio
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, apiResponse{
		Data: models.Profile{Email: acc.email, Username: acc.username, Bio: acc.bio},
		Message: "profile updated",
	})
}

// roomID pulls the {id} path param.
func roomID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
