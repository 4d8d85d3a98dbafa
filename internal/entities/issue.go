// Package entities contains core business entities.
package entities

import "time"

// IssueStatus enumerates issue lifecycle states.
type IssueStatus string

const (
	// StatusOpen marks an issue as open.
	StatusOpen IssueStatus = "OPEN"
	// StatusInProgress marks an issue as being worked on.
	StatusInProgress IssueStatus = "IN_PROGRESS"
	// StatusClosed marks an issue as closed.
	StatusClosed IssueStatus = "CLOSED"
)

// IssuePriority enumerates issue priorities.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "LOW"
	PriorityMedium IssuePriority = "MEDIUM"
	PriorityHigh   IssuePriority = "HIGH"
	PriorityUrgent IssuePriority = "URGENT"
)

// Issue is a domain model of a tracked issue. An issue belongs to exactly one
// team and is visible only to that team's accessible-team set.
type Issue struct {
	ID          string
	Title       string
	Description string
	Status      IssueStatus
	Priority    IssuePriority
	Tags        []string
	TeamID      string
	AssignedTo  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IssueUpdate carries the optional fields of an issue update; nil means
// "leave unchanged".
type IssueUpdate struct {
	Title       *string
	Description *string
	Status      *IssueStatus
	Priority    *IssuePriority
	Tags        *[]string
	AssignedTo  *string
}

// Empty reports whether the update would change nothing.
func (u IssueUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Tags == nil && u.AssignedTo == nil
}

// IssueFilter limits issue listings. TeamIDs is the caller's allowed team set;
// an empty set yields zero results.
type IssueFilter struct {
	TeamIDs   []string
	Status    *IssueStatus
	Priority  *IssuePriority
	Search    string
	CreatedBy string
	Page      int
	Size      int
}
