package domain

import "time"

// RegisteredUser is created on the first successful registration for an email.
type RegisteredUser struct {
	UserID           string    `json:"id"`
	Email            string    `json:"email"`
	Verified         bool      `json:"verified"`
	RegistrationDate time.Time `json:"registration_date"`
}

type RegisterRequest struct {
	Email string `json:"email"`
	// AutoWhitelist defaults to true when omitted.
	AutoWhitelist *bool `json:"auto_whitelist"`
}

type WhitelistRequest struct {
	Email string `json:"email" validate:"required,policy_email"`
}
