package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserInactive = errors.New("user account is inactive")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrSelfAction = errors.New("operation not allowed on own account")
var ErrInvalidRole = errors.New("invalid role")

// User models an authenticated actor in the vault. PasswordHash is the login
// credential (bcrypt), a distinct concept from the vault secrets it guards.
type User struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	Role         string     `json:"role" bson:"role"`
	Active       bool       `json:"active" bson:"active"`
	LastAccess   *time.Time `json:"last_access,omitempty" bson:"last_access,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// Principal is the authenticated identity attached to a request, rebuilt
// from the JWT claims on every call.
type Principal struct {
	ID    string
	Email string
	Role  string
}
