// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized signals missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an authenticated user acting outside their permissions.
	ErrForbidden = errors.New("forbidden")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists signals username or email conflict on registration.
	ErrUserExists = errors.New("user exists")
	// ErrTeamNotFound signals missing or inactive team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrIssueNotFound signals missing issue.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrNotificationNotFound signals a notification absent or not owned by the caller.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrAlreadyMember signals an active membership already exists for (team, user).
	ErrAlreadyMember = errors.New("already a team member")
)
