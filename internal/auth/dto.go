package auth

import "github.com/lopeshyago/fusionbackapp/internal/accounts"

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the open self-registration payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Role     string `json:"role,omitempty"`
}

// InviteRegisterRequest registers an account gated by an invite or location code.
type InviteRegisterRequest struct {
	InviteCode string `json:"invite_code" validate:"required,max=64"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	FullName   string `json:"full_name" validate:"omitempty,max=200"`
}

// RedeemRequest escalates the caller's role with a generic invite.
type RedeemRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// AuthResponse contains the session token and the public account view.
type AuthResponse struct {
	Token string               `json:"token"`
	User  *accounts.AccountDTO `json:"user"`
}
