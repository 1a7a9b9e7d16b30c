package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/pkg/emailcheck"
	"github.com/google/uuid"
)

const (
	autoAppealReason = "Registration email was detected as blocked"

	msgInvalidEmail  = "Invalid email format"
	msgAlreadyExists = "Email is already registered"
	msgRegistered    = "Registration successful! Please check your email for verification"
	msgBlockedFormat = "This email was detected as blocked. An appeal ticket has been filed automatically. " +
		"Appeal ID: %s. Please wait for review or contact an administrator."
)

type Service interface {
	Register(ctx context.Context, email string, autoWhitelist bool) domain.RegistrationResult
	SubmitAppeal(ctx context.Context, input domain.AppealInput) (*domain.Appeal, error)
	GetAppeal(ctx context.Context, appealID string) (*domain.Appeal, error)
	ListAppeals(ctx context.Context) ([]domain.Appeal, error)
	Whitelist(ctx context.Context, email string) error
	Check(ctx context.Context, email string) domain.PolicyCheck
}

type policyStore interface {
	IsWhitelisted(email string) bool
	IsBlocked(email string) bool
	AddToWhitelist(email string)
	SubmitAppeal(email, reason string) (string, error)
	GetAppeal(appealID string) (*domain.Appeal, error)
	ListAppeals() []domain.Appeal
}

type userStore interface {
	Create(ctx context.Context, u *domain.RegisteredUser) error
	GetByEmail(ctx context.Context, email string) (*domain.RegisteredUser, error)
}

type appealNotifier interface {
	AppealFiled(ctx context.Context, a domain.Appeal) error
}

type recorder interface {
	IncrementRegistration(outcome string)
	IncrementAppealsFiled()
	IncrementAutoWhitelisted()
	IncrementRecovered(operation string)
}

type service struct {
	policy   policyStore
	users    userStore
	notifier appealNotifier
	metrics  recorder
	now      func() time.Time
}

// ServiceDeps wires the registration policy. Notifier and Metrics are optional.
type ServiceDeps struct {
	Policy   policyStore
	Users    userStore
	Notifier appealNotifier
	Metrics  recorder
}

func NewService(deps ServiceDeps) Service {
	return &service{
		policy:   deps.Policy,
		users:    deps.Users,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Register(ctx context.Context, email string, autoWhitelist bool) (result domain.RegistrationResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("registration fault", "email", email, "panic", r)
			s.recordRecovered()
			result = domain.RegistrationResult{Message: fmt.Sprintf("An error occurred: %v", r)}
		}
		s.recordOutcome(result)
	}()

	if !emailcheck.IsValidSyntax(email) {
		return domain.RegistrationFailure(domain.RegistrationInvalidEmail, msgInvalidEmail)
	}

	// Whitelisting before the block check lets a legitimate new corporate
	// domain escape a stale blocklist entry in the same call.
	if autoWhitelist && emailcheck.HasValidDomainSuffix(emailcheck.Domain(email)) && emailcheck.LooksCorporate(email) {
		s.policy.AddToWhitelist(email)
		if s.metrics != nil {
			s.metrics.IncrementAutoWhitelisted()
		}
	}

	if s.policy.IsBlocked(email) {
		appealID, err := s.fileAppeal(ctx, email, autoAppealReason)
		if err != nil {
			return internalFailure(err)
		}
		res := domain.RegistrationFailure(domain.RegistrationBlockedEmail, fmt.Sprintf(msgBlockedFormat, appealID))
		res.AppealID = appealID
		return res
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.RegistrationFailure(domain.RegistrationAlreadyExists, msgAlreadyExists)
	case !errors.Is(err, domain.ErrNotFound):
		return internalFailure(err)
	}

	u := &domain.RegisteredUser{
		UserID:           uuid.NewString(),
		Email:            email,
		Verified:         false,
		RegistrationDate: s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, domain.ErrConflict) {
			return domain.RegistrationFailure(domain.RegistrationAlreadyExists, msgAlreadyExists)
		}
		return internalFailure(err)
	}
	slog.Info("user registered", "user_id", u.UserID, "email", email)
	return domain.RegistrationResult{Success: true, Message: msgRegistered}
}

func (s *service) SubmitAppeal(ctx context.Context, input domain.AppealInput) (*domain.Appeal, error) {
	if !emailcheck.IsValidSyntax(input.Email) {
		return nil, fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	}
	if input.Reason == "" {
		return nil, fmt.Errorf("reason required: %w", domain.ErrBadRequest)
	}
	appealID, err := s.fileAppeal(ctx, input.Email, input.Reason)
	if err != nil {
		return nil, err
	}
	return s.policy.GetAppeal(appealID)
}

func (s *service) GetAppeal(_ context.Context, appealID string) (*domain.Appeal, error) {
	return s.policy.GetAppeal(appealID)
}

func (s *service) ListAppeals(_ context.Context) ([]domain.Appeal, error) {
	return s.policy.ListAppeals(), nil
}

// Whitelist is the administrator override for a single address.
func (s *service) Whitelist(_ context.Context, email string) error {
	if !emailcheck.IsValidSyntax(email) {
		return fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	}
	s.policy.AddToWhitelist(email)
	slog.Info("email whitelisted by administrator", "email", email)
	return nil
}

// Check reports how the classifier and policy tables see email without
// changing any state.
func (s *service) Check(_ context.Context, email string) domain.PolicyCheck {
	c := emailcheck.Classify(email)
	check := domain.PolicyCheck{
		Email:       email,
		ValidSyntax: c.ValidSyntax,
		Domain:      c.Domain,
		ValidSuffix: c.ValidSuffix,
		Corporate:   c.Corporate,
	}
	if c.ValidSyntax {
		check.Whitelisted = s.policy.IsWhitelisted(email)
		check.Blocked = s.policy.IsBlocked(email)
	}
	return check
}

func (s *service) fileAppeal(ctx context.Context, email, reason string) (string, error) {
	appealID, err := s.policy.SubmitAppeal(email, reason)
	if err != nil {
		return "", fmt.Errorf("submit appeal: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementAppealsFiled()
	}
	slog.Info("appeal filed", "appeal_id", appealID, "email", email)

	if s.notifier != nil {
		a, err := s.policy.GetAppeal(appealID)
		if err == nil {
			err = s.notifier.AppealFiled(ctx, *a)
		}
		if err != nil {
			slog.Warn("failed to notify reviewers of appeal", "appeal_id", appealID, "err", err)
		}
	}
	return appealID, nil
}

func (s *service) recordOutcome(res domain.RegistrationResult) {
	if s.metrics == nil {
		return
	}
	switch {
	case res.Success:
		s.metrics.IncrementRegistration("success")
	case res.Error != nil:
		s.metrics.IncrementRegistration(string(*res.Error))
	default:
		s.metrics.IncrementRegistration("internal_error")
	}
}

func (s *service) recordRecovered() {
	if s.metrics != nil {
		s.metrics.IncrementRecovered("register")
	}
}

func internalFailure(err error) domain.RegistrationResult {
	slog.Error("registration failed", "err", err)
	return domain.RegistrationResult{Message: "An error occurred: " + err.Error()}
}
