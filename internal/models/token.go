package models

import "github.com/golang-jwt/jwt/v5"

// Role identifies which side of the portal an account belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the two known account types.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// JWTClaims is the session token payload: numeric account id plus role.
type JWTClaims struct {
	UserID int64 `json:"id"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}
