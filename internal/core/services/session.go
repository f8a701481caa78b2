package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

// DefaultMaxHistory is the default number of retained exchanges
// (one exchange = one user turn plus one assistant turn).
const DefaultMaxHistory = 2

// SessionStore holds conversation history per session. Sessions are
// created lazily on first access and live only for the process
// lifetime; there is no persistence.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string][]domain.Turn
	maxHistory int
}

// NewSessionStore creates a session store retaining at most maxHistory
// exchanges per session.
func NewSessionStore(maxHistory int) *SessionStore {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &SessionStore{
		sessions:   make(map[string][]domain.Turn),
		maxHistory: maxHistory,
	}
}

// CreateSession mints a new opaque session id.
func (s *SessionStore) CreateSession() string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// AddExchange appends a user/assistant turn pair to a session,
// evicting the oldest turns once the cap is exceeded.
func (s *SessionStore) AddExchange(sessionID, userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID],
		domain.Turn{Role: domain.RoleUser, Content: userText},
		domain.Turn{Role: domain.RoleAssistant, Content: assistantText},
	)

	if max := 2 * s.maxHistory; len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	s.sessions[sessionID] = turns
}

// History returns the session's retained turns formatted as
// role-prefixed lines, or the empty string when the session has none.
func (s *SessionStore) History(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, len(turns))
	for i, turn := range turns {
		role := "User"
		if turn.Role == domain.RoleAssistant {
			role = "Assistant"
		}
		lines[i] = fmt.Sprintf("%s: %s", role, turn.Content)
	}
	return strings.Join(lines, "\n")
}

// Turns returns a copy of a session's retained turns.
func (s *SessionStore) Turns(sessionID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}
