package domain

// RegistrationError is the closed set of registration failure kinds.
type RegistrationError string

const (
	RegistrationBlockedEmail  RegistrationError = "blocked_email"
	RegistrationInvalidEmail  RegistrationError = "invalid_email"
	RegistrationAlreadyExists RegistrationError = "already_exists"
	RegistrationPolicyDenied  RegistrationError = "policy_denied"
)

// AuthError is the closed set of authentication failure kinds.
type AuthError string

const (
	AuthPolicyDenied   AuthError = "policy_denied"
	AuthAccessBlocked  AuthError = "access_blocked"
	AuthInvalidSession AuthError = "invalid_session"
	AuthUnauthorized   AuthError = "unauthorized"
)

// RegistrationResult is the outcome of a registration attempt.
// Error is nil on success and on generic internal failures.
type RegistrationResult struct {
	Success  bool               `json:"success"`
	Error    *RegistrationError `json:"error"`
	Message  string             `json:"message"`
	AppealID string             `json:"appeal_id,omitempty"`
}

// AuthResult is the outcome of an authentication attempt.
type AuthResult struct {
	Success     bool       `json:"success"`
	Error       *AuthError `json:"error"`
	Message     string     `json:"message"`
	SessionID   string     `json:"session_id,omitempty"`
	RedirectURL string     `json:"redirect_url,omitempty"`
}

// Kind returns the error kind, or "" on success.
func (r RegistrationResult) Kind() RegistrationError {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Kind returns the error kind, or "" on success.
func (r AuthResult) Kind() AuthError {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

func RegistrationFailure(kind RegistrationError, msg string) RegistrationResult {
	return RegistrationResult{Success: false, Error: &kind, Message: msg}
}

func AuthFailure(kind AuthError, msg string) AuthResult {
	return AuthResult{Success: false, Error: &kind, Message: msg}
}
