package dto

import "strings"

// Presence and blankness are judged by the identity service so that the
// HTTP surface reports the same codes as any other caller. Tags here only
// bound input size.

type RegisterRequest struct {
	Email    string `json:"email" validate:"max=320"`
	Password string `json:"password" validate:"max=1024"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *RegisterRequest) Validate() error {
	return validateStruct(r)
}

type AuthenticateRequest struct {
	Email    string `json:"email" validate:"max=320"`
	Password string `json:"password" validate:"max=1024"`
}

func (r *AuthenticateRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *AuthenticateRequest) Validate() error {
	return validateStruct(r)
}

// UpdateProfileRequest keeps omitted and supplied-but-empty apart:
// an absent key stays nil.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,max=320"`
	Password *string `json:"password,omitempty" validate:"omitempty,max=1024"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.Email != nil {
		e := strings.TrimSpace(*r.Email)
		r.Email = &e
	}
}

func (r *UpdateProfileRequest) Validate() error {
	return validateStruct(r)
}
