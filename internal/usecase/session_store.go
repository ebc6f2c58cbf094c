package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("search session not found")

// Session holds the results of one search for as long as its views are in use
type Session struct {
	ID        string
	Params    entity.SearchParams
	CreatedAt time.Time
	Pipeline  *Pipeline

	lastAccess time.Time
}

// SessionStore keeps live search sessions and evicts idle ones
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewSessionStore creates a store evicting sessions idle for longer than ttl
func NewSessionStore(ttl time.Duration, logger logger.Logger, metrics *metrics.Metrics) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		metrics:  metrics,
	}
}

// Add registers a new session for pipeline
func (s *SessionStore) Add(params entity.SearchParams, pipeline *Pipeline) *Session {
	now := s.now()
	session := &Session{
		ID:         uuid.NewString(),
		Params:     params,
		CreatedAt:  now,
		Pipeline:   pipeline,
		lastAccess: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Set(float64(count))
	return session
}

// Get returns a session and marks it as used
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.lastAccess = s.now()
	return session, nil
}

// Delete discards a session; in-flight lookups for it finish unobserved
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Set(float64(count))
	return ok
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts idle sessions and returns how many were removed
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, session := range s.sessions {
		if session.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Set(float64(count))
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done
func (s *SessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Info("Evicted idle search sessions", "count", removed)
			}
		}
	}
}
