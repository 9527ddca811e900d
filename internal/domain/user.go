package domain

import (
	"database/sql"
	"time"
)

type User struct {
	UserID            string         `json:"id" db:"user_id"`
	Name              string         `json:"name" db:"name"`
	Email             string         `json:"email" db:"email"`
	Phone             *string        `json:"phone" db:"phone"`
	PasswordHash      string         `json:"-" db:"password_hash"`
	Role              string         `json:"role" db:"role"`
	ResetToken        sql.NullString `json:"-" db:"reset_token"`
	ResetTokenExpires sql.NullTime   `json:"-" db:"reset_token_expires"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role" validate:"required,oneof=user owner"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UpdateUserRequest carries partial-update semantics: nil fields keep
// their current value.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role"`
}
