package http

import (
	"context"

	"github.com/email-access-policy/internal/domain"
)

// PolicyStore is the minimal interface the router requires from the policy tables.
type PolicyStore interface {
	IsWhitelisted(email string) bool
	IsBlocked(email string) bool
	AddToWhitelist(email string)
	SubmitAppeal(email, reason string) (string, error)
	GetAppeal(appealID string) (*domain.Appeal, error)
	ListAppeals() []domain.Appeal
}

// UserRepository is the minimal interface the router requires from a registered-user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.RegisteredUser) error
	GetByEmail(ctx context.Context, email string) (*domain.RegisteredUser, error)
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

// AppealNotifier publishes appeal events to reviewers.
type AppealNotifier interface {
	AppealFiled(ctx context.Context, a domain.Appeal) error
}
