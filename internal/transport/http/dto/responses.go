package dto

import (
	"time"

	"github.com/baechuer/identity-service/internal/domain"
)

// AccountView is the public shape of an account. It never carries the hash.
type AccountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAccountView(a domain.Account) AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type RegisteredView struct {
	ID string `json:"id"`
}
