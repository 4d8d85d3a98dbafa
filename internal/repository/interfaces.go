// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	CreateUser(ctx context.Context, user entities.User, passwordHash string) (*entities.User, error)
	GetUserByID(ctx context.Context, userID string) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	GetCredentials(ctx context.Context, username string) (*entities.Credentials, error)
	GetUsersByIDs(ctx context.Context, userIDs []string) ([]entities.User, error)
}

// TeamInterface exposes team and membership operations.
type TeamInterface interface {
	CreateTeam(ctx context.Context, team entities.Team, creator entities.User) (*entities.Team, error)
	GetTeam(ctx context.Context, teamID string) (*entities.Team, error)
	ListUserTeams(ctx context.Context, userID string) ([]entities.TeamWithRole, error)
	AddTeamMember(ctx context.Context, member entities.TeamMember) (*entities.TeamMember, error)
	GetMembership(ctx context.Context, teamID, userID string) (*entities.TeamMember, error)
	ListTeamMembers(ctx context.Context, teamID string) ([]entities.TeamMember, error)
	// AccessibleTeamIDs returns ids of active teams the user has an active
	// membership in, unioned with active teams the user created.
	AccessibleTeamIDs(ctx context.Context, userID string) ([]string, error)
}

// IssueInterface exposes issue operations.
type IssueInterface interface {
	CreateIssue(ctx context.Context, issue entities.Issue) (*entities.Issue, error)
	GetIssue(ctx context.Context, issueID string) (*entities.Issue, error)
	ListIssues(ctx context.Context, filter entities.IssueFilter) ([]entities.Issue, int64, error)
	ListAssignedIssues(ctx context.Context, userID string) ([]entities.Issue, error)
	UpdateIssue(ctx context.Context, issueID string, update entities.IssueUpdate) (*entities.Issue, error)
	DeleteIssue(ctx context.Context, issueID string) error
}

// NotificationInterface exposes the durable per-user inbox.
type NotificationInterface interface {
	CreateNotification(ctx context.Context, n entities.Notification) (string, error)
	ListNotifications(ctx context.Context, userID string, page, size int, unreadOnly bool) (entities.NotificationPage, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}
