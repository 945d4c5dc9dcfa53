package dto

import (
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
)

// RegisterRequest describes the sign-up payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest describes the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public view of a user; it never carries credentials.
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// NewRegisterResponse returns only the fields echoed after sign-up.
func NewRegisterResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func NewProfileResponse(u *model.User) UserResponse {
	created := u.CreatedAt
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		CreatedAt:   &created,
		LastLoginAt: u.LastLoginAt,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
