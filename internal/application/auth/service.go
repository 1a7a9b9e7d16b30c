package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/pkg/emailcheck"
	"github.com/email-access-policy/internal/pkg/id"
)

// Branch labels used for logging and metrics.
const (
	branchPrecheck = "precheck"
	branchOverride = "override"
	branchNormal   = "normal"
)

const (
	msgInvalidEmail    = "Invalid email format"
	msgOverrideGranted = "Authentication successful! Redirecting to the dashboard..."
	msgLoginGranted    = "Login successful!"
	msgUnauthorized    = "Email is not allowed. Use an official or company email address."
	msgPolicyDenied    = "Access denied by security policy. Make sure you are using an official email " +
		"address or contact %s for help."
)

type Service interface {
	Authenticate(ctx context.Context, email string, upstream *domain.UpstreamContext) domain.AuthResult
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

type recorder interface {
	IncrementAuth(branch, outcome string)
	IncrementRecovered(operation string)
}

type service struct {
	allowedDomains []string
	sessions       sessionStore
	metrics        recorder
	dashboardURL   string
	supportContact string
	newSessionID   func() string
	now            func() time.Time
}

// ServiceDeps wires the authentication policy. Metrics is optional.
type ServiceDeps struct {
	AllowedDomains []string
	Sessions       sessionStore
	Metrics        recorder
	DashboardURL   string
	SupportContact string
}

func NewService(deps ServiceDeps) Service {
	allowed := make([]string, 0, len(deps.AllowedDomains))
	for _, d := range deps.AllowedDomains {
		allowed = append(allowed, strings.ToLower(d))
	}
	return &service{
		allowedDomains: allowed,
		sessions:       deps.Sessions,
		metrics:        deps.Metrics,
		dashboardURL:   deps.DashboardURL,
		supportContact: deps.SupportContact,
		newSessionID:   id.NewSessionID,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Authenticate(ctx context.Context, email string, upstream *domain.UpstreamContext) (result domain.AuthResult) {
	branch := branchPrecheck
	defer func() {
		if r := recover(); r != nil {
			slog.Error("authentication fault", "email", email, "branch", branch, "panic", r)
			if s.metrics != nil {
				s.metrics.IncrementRecovered("authenticate")
			}
			result = domain.AuthFailure(domain.AuthInvalidSession, fmt.Sprintf("An error occurred: %v", r))
		}
		s.recordOutcome(branch, result)
	}()

	// Cheap shape check only; full syntax validation is the registration path's job.
	if email == "" || !strings.Contains(email, "@") {
		return domain.AuthFailure(domain.AuthInvalidSession, msgInvalidEmail)
	}

	if upstream != nil && upstream.Error == domain.UpstreamErrorPolicyDenied {
		branch = branchOverride
		if !s.isAllowedDomain(email) {
			return domain.AuthFailure(domain.AuthPolicyDenied, fmt.Sprintf(msgPolicyDenied, s.supportContact))
		}
		sessionID, err := s.grant(ctx, email, upstream.SessionID, domain.SessionStatusAuthorized)
		if err != nil {
			return sessionFailure(err)
		}
		return domain.AuthResult{
			Success:     true,
			SessionID:   sessionID,
			Message:     msgOverrideGranted,
			RedirectURL: s.dashboardURL,
		}
	}

	branch = branchNormal
	if !s.isAllowedDomain(email) {
		return domain.AuthFailure(domain.AuthUnauthorized, msgUnauthorized)
	}
	var upstreamSessionID string
	if upstream != nil {
		upstreamSessionID = upstream.SessionID
	}
	sessionID, err := s.grant(ctx, email, upstreamSessionID, domain.SessionStatusActive)
	if err != nil {
		return sessionFailure(err)
	}
	return domain.AuthResult{Success: true, SessionID: sessionID, Message: msgLoginGranted}
}

func (s *service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

// grant records a session under the upstream id when one was supplied,
// otherwise under a freshly generated id.
func (s *service) grant(ctx context.Context, email, upstreamSessionID, status string) (string, error) {
	sessionID := upstreamSessionID
	if sessionID == "" {
		sessionID = s.newSessionID()
	}
	sess := &domain.Session{
		SessionID: sessionID,
		Email:     email,
		Status:    status,
		Timestamp: s.now(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	slog.Info("session granted", "session_id", sessionID, "email", email, "status", status)
	return sessionID, nil
}

// isAllowedDomain matches the email's domain against the allow-list by suffix,
// so "ac.id" admits "student@ac.id" as well as "student@ui.ac.id".
func (s *service) isAllowedDomain(email string) bool {
	domainPart := strings.ToLower(emailcheck.Domain(email))
	for _, allowed := range s.allowedDomains {
		if strings.HasSuffix(domainPart, allowed) {
			return true
		}
	}
	return false
}

func (s *service) recordOutcome(branch string, res domain.AuthResult) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if !res.Success {
		outcome = string(res.Kind())
	}
	s.metrics.IncrementAuth(branch, outcome)
}

func sessionFailure(err error) domain.AuthResult {
	slog.Error("authentication failed", "err", err)
	return domain.AuthFailure(domain.AuthInvalidSession, "An error occurred: "+err.Error())
}
