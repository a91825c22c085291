package core

import (
	"context"
	"time"
)

// User represents an authenticated system user.
type User struct {
	ID           int
	Username     string
	DisplayName  string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

// UserService provides user creation and lookup operations.
type UserService interface {
	// CreateUser creates an active user with a bcrypt password hash.
	CreateUser(ctx context.Context, username, password, displayName, role string) (*User, error)

	// GetByUsername finds an active user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)
}
