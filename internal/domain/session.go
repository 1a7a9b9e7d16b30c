package domain

import "time"

const (
	// SessionStatusActive marks a normal grant.
	SessionStatusActive = "active"
	// SessionStatusAuthorized marks a session granted by overriding an upstream denial.
	SessionStatusAuthorized = "authorized"
)

type Session struct {
	SessionID string    `json:"id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type AuthenticateRequest struct {
	Email string `json:"email"`
	// UpstreamURL is the redirect URL handed back by the identity front door, if any.
	UpstreamURL string `json:"upstream_url"`
}
