package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/email-access-policy/internal/domain"
)

// SessionRepo keeps issued sessions keyed by session id.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]domain.Session)}
}

// Put inserts or replaces the session with the same id. Upstream session ids
// may legitimately be presented again, so the latest grant wins.
func (r *SessionRepo) Put(_ context.Context, s *domain.Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("session id required: %w", domain.ErrBadRequest)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = *s
	return nil
}

func (r *SessionRepo) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return &s, nil
}

func (r *SessionRepo) List(_ context.Context) ([]domain.Session, error) {
	r.mu.RLock()
	out := make([]domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
