package domain

import "time"

// AppealStatusPending is the only status the policy engine ever assigns.
// Review happens outside this service.
const AppealStatusPending = "pending"

// Appeal is a review ticket filed when a registration is denied.
type Appeal struct {
	AppealID    string    `json:"id"`
	Email       string    `json:"email"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type AppealInput struct {
	Email  string `json:"email" validate:"required,policy_email"`
	Reason string `json:"reason" validate:"required,max=500"`
}
