package memory

import (
	"sync"
	"time"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/repository"
)

type sessionStore struct {
	mu       sync.Mutex
	sessions []*domain.Session
	now      func() time.Time
}

// NewSessionStore creates the in-memory session store. A single mutex
// guards every operation; insertion order is preserved so the first
// authorized operator stays the crew's token holder.
func NewSessionStore() repository.SessionStore {
	return &sessionStore{now: time.Now}
}

// NewSessionStoreWithClock injects a clock for tests.
func NewSessionStoreWithClock(now func() time.Time) repository.SessionStore {
	if now == nil {
		now = time.Now
	}
	return &sessionStore{now: now}
}

func (s *sessionStore) Lookup(username string) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.find(username); sess != nil {
		cp := *sess
		return &cp, true
	}
	return nil, false
}

func (s *sessionStore) CurrentToken(username string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.find(username)
	if !sess.TokenValid(s.now()) {
		return "", false
	}
	return sess.Token, true
}

func (s *sessionStore) Upsert(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.find(username); sess != nil {
		sess.Token = token
		sess.TokenIssuedAt = s.now()
		return
	}
	s.sessions = append(s.sessions, &domain.Session{
		Username:      username,
		Token:         token,
		TokenIssuedAt: s.now(),
	})
}

func (s *sessionStore) SetWorkplace(username, workplace string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.find(username); sess != nil {
		sess.Workplace = workplace
	}
}

func (s *sessionStore) Remove(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.Username != username {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
}

func (s *sessionStore) Contains(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(username) != nil
}

func (s *sessionStore) AllWithWorkplace() []domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	crew := make([]domain.Employee, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.Username == "" || sess.Workplace == "" {
			continue
		}
		crew = append(crew, domain.Employee{
			Username:  sess.Username,
			Workplace: sess.Workplace,
		})
	}
	return crew
}

func (s *sessionStore) First() (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) == 0 {
		return nil, false
	}
	cp := *s.sessions[0]
	return &cp, true
}

func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) find(username string) *domain.Session {
	for _, sess := range s.sessions {
		if sess.Username == username {
			return sess
		}
	}
	return nil
}
