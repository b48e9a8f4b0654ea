package rest

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session tracks one HTTP client that called initialize. Sessions are
// informational only; tool calls are not required to present one.
type Session struct {
	CreatedAt  string         `json:"created_at"`
	ClientInfo map[string]any `json:"client_info"`
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

func (s *SessionStore) Create(clientInfo map[string]any) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = Session{
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		ClientInfo: clientInfo,
	}
	s.mu.Unlock()
	return id
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
