package session

import (
	"sync"

	"github.com/google/uuid"

	"biaslab/backend/internal/lexicon"
)

// Manager tracks in-flight sessions by id. Each session is fully isolated;
// discarding one never touches another.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	lex      *lexicon.Lexicon
}

// NewManager constructs a manager bound to the given lexicon.
func NewManager(lex *lexicon.Lexicon) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		lex:      lex,
	}
}

// Start creates and registers a fresh session.
func (m *Manager) Start(decisionText, optionA, optionB, leaning string) *Session {
	s := New(uuid.NewString(), decisionText, optionA, optionB, leaning, m.lex)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Discard removes the session; its state is dropped entirely.
func (m *Manager) Discard(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
