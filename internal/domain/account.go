package domain

import "time"

// Account is a stored identity record.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountChanges is the field set of a partial update.
// A nil pointer means the field is left untouched.
type AccountChanges struct {
	Email        *string
	PasswordHash *string
}

// Empty reports whether no field is targeted.
func (c AccountChanges) Empty() bool {
	return c.Email == nil && c.PasswordHash == nil
}

// Apply returns a copy of a with the targeted fields replaced.
func (c AccountChanges) Apply(a Account) Account {
	if c.Email != nil {
		a.Email = *c.Email
	}
	if c.PasswordHash != nil {
		a.PasswordHash = *c.PasswordHash
	}
	return a
}
