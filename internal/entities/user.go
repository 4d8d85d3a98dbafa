// Package entities contains core business entities.
package entities

import "time"

// User is a domain representation of a registered account.
type User struct {
	ID        string
	Username  string
	Email     string
	FullName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credentials pairs a user with its stored password hash for authentication.
type Credentials struct {
	User         User
	PasswordHash string
}
