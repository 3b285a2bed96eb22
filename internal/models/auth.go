package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role decides which portal a session enters and which operations it may call.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Claims is the token payload issued at login: identity, role and expiry.
type Claims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest holds credentials for either portal.
type LoginRequest struct {
	Role     Role   `json:"role" validate:"required,oneof=student admin"`
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a student account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StatusResponse is the envelope every mutating endpoint answers with.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFail    = "fail"
)

// Account is a stored login, student or administrator.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
