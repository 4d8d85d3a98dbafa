// Package entities contains core business entities.
package entities

import "time"

// NotificationType enumerates durable notification kinds.
type NotificationType string

const (
	NotificationIssueAssigned      NotificationType = "ISSUE_ASSIGNED"
	NotificationIssueUpdated       NotificationType = "ISSUE_UPDATED"
	NotificationIssueStatusChanged NotificationType = "ISSUE_STATUS_CHANGED"
	NotificationIssueComment       NotificationType = "ISSUE_COMMENT"
	NotificationTeamInvite         NotificationType = "TEAM_INVITE"
)

// Notification is a durable inbox record for one recipient. Records are created
// only by the dispatch coordinator and mutated only by mark-read operations.
type Notification struct {
	ID            string
	Type          NotificationType
	Title         string
	Message       string
	IssueID       string
	RelatedUserID string
	UserID        string
	IsRead        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NotificationPage is a paginated inbox view. UnreadCount covers the full
// unread set for the user, independent of the page window.
type NotificationPage struct {
	Items       []Notification
	Total       int64
	UnreadCount int64
}
