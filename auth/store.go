package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the per-visitor login state. A request without a session is
// logged out; one carrying a session is logged in as UserID.
type Session struct {
	ID        string
	UserID    uint
	Username  string
	CreatedAt time.Time
}

// LoggedIn reports whether s represents an authenticated user.
func (s *Session) LoggedIn() bool { return s != nil && s.UserID != 0 }

// Store keeps sessions between requests.
type Store interface {
	Create(userID uint, username string) (*Session, error)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// MemoryStore is a process-local Store. Sessions do not expire; they end on
// logout or process restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create starts a new session for userID.
func (m *MemoryStore) Create(userID uint, username string) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	s := &Session{ID: id.String(), UserID: userID, Username: username, CreatedAt: time.Now()}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns a copy of the session so callers cannot mutate shared state.
func (m *MemoryStore) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

// Delete removes the session; unknown ids are ignored.
func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
