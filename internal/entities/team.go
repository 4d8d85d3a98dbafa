// Package entities contains core business entities.
package entities

import "time"

// Team membership roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Team aggregates issues and members under a name. Teams are soft-deleted via
// IsActive; inactive teams are excluded from every lookup.
type Team struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	IsActive    bool
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamWithRole is a team projection annotated with the viewing user's role.
type TeamWithRole struct {
	Team
	UserRole string
}

// TeamMember is an active membership row. At most one active membership may
// exist per (TeamID, UserID) pair.
type TeamMember struct {
	ID       string
	TeamID   string
	UserID   string
	Username string
	Role     string
	AddedBy  string
	AddedAt  time.Time
	IsActive bool
}
