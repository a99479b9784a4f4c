package webapp

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/solution-navigator/internal/assessment"
)

const sessionTTL = 24 * time.Hour

type sessionEntry struct {
	session   *assessment.Session
	createdAt time.Time
}

// SessionStore keeps live sessions in memory, keyed by an opaque token the
// client polls with. Nothing is persisted; a restart forgets everything.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*sessionEntry{}}
}

func (s *SessionStore) Create(session *assessment.Session) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[token] = &sessionEntry{session: session, createdAt: time.Now()}
	return token
}

func (s *SessionStore) Get(token string) *assessment.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry := s.sessions[token]
	if entry == nil {
		return nil
	}
	return entry.session
}

// prune drops expired sessions; callers hold the write lock.
func (s *SessionStore) prune() {
	cutoff := time.Now().Add(-sessionTTL)
	for token, entry := range s.sessions {
		if entry.createdAt.Before(cutoff) {
			delete(s.sessions, token)
		}
	}
}
