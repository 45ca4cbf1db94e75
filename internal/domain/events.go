package domain

import "time"

// AccountRegistered is announced after a registration has committed.
type AccountRegistered struct {
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProfileUpdated is announced after a profile update has committed.
// It carries which fields changed, never their values.
type ProfileUpdated struct {
	AccountID       string    `json:"account_id"`
	EmailChanged    bool      `json:"email_changed"`
	PasswordChanged bool      `json:"password_changed"`
	OccurredAt      time.Time `json:"occurred_at"`
}
