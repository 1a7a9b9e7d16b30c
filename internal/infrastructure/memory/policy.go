package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/email-access-policy/internal/config"
	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/pkg/emailcheck"
	"github.com/email-access-policy/internal/pkg/id"
)

type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[strings.ToLower(it)] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

// PolicyStore owns the block/white lists and pending appeals.
// The static tables are immutable after construction and read without locking;
// the dynamic whitelist and the appeals map are guarded by mu.
type PolicyStore struct {
	blockedDomains     set
	blockedEmails      set
	whitelistedDomains set

	mu                sync.RWMutex
	whitelistedEmails set
	appeals           map[string]domain.Appeal

	newAppealID func() string
	now         func() time.Time
}

func NewPolicyStore(p config.Policy) *PolicyStore {
	return &PolicyStore{
		blockedDomains:     newSet(p.BlockedDomains),
		blockedEmails:      newSet(p.BlockedEmails),
		whitelistedDomains: newSet(p.WhitelistedDomains),
		whitelistedEmails:  make(set),
		appeals:            make(map[string]domain.Appeal),
		newAppealID:        id.NewAppealID,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// IsWhitelisted matches the exact address or its domain, case-insensitively.
func (s *PolicyStore) IsWhitelisted(email string) bool {
	email = strings.ToLower(email)
	if s.whitelistedDomains.has(emailcheck.Domain(email)) {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.whitelistedEmails.has(email)
}

// IsBlocked reports blocklist membership. A whitelisted email is never blocked.
func (s *PolicyStore) IsBlocked(email string) bool {
	if s.IsWhitelisted(email) {
		return false
	}
	email = strings.ToLower(email)
	return s.blockedEmails.has(email) || s.blockedDomains.has(emailcheck.Domain(email))
}

func (s *PolicyStore) AddToWhitelist(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelistedEmails[strings.ToLower(email)] = struct{}{}
}

// SubmitAppeal files a pending appeal and returns its id.
func (s *PolicyStore) SubmitAppeal(email, reason string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appealID := s.newAppealID()
	if _, exists := s.appeals[appealID]; exists {
		return "", fmt.Errorf("appeal id %s already issued: %w", appealID, domain.ErrConflict)
	}
	s.appeals[appealID] = domain.Appeal{
		AppealID:    appealID,
		Email:       email,
		Reason:      reason,
		Status:      domain.AppealStatusPending,
		SubmittedAt: s.now(),
	}
	return appealID, nil
}

func (s *PolicyStore) GetAppeal(appealID string) (*domain.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appeals[appealID]
	if !ok {
		return nil, fmt.Errorf("appeal not found: %w", domain.ErrNotFound)
	}
	return &a, nil
}

// ListAppeals returns every appeal ordered by id, which is submission order.
func (s *PolicyStore) ListAppeals() []domain.Appeal {
	s.mu.RLock()
	out := make([]domain.Appeal, 0, len(s.appeals))
	for _, a := range s.appeals {
		out = append(out, a)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].AppealID < out[j].AppealID })
	return out
}
