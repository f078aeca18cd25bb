package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole restricts what an authenticated caller may do.
type UserRole string

// RoleAdmin is the only role the service issues: catalog replacement and
// global remap administration are admin-only operations.
const RoleAdmin UserRole = "ADMIN"

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims is the access-token payload.
type JWTClaims struct {
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}
