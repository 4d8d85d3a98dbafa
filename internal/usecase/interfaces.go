package usecase

import (
	"context"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
)

// AuthUsecaseInterface abstracts account and session operations.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, user entities.User, password string) (*entities.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	IssueToken(user entities.User) (string, error)
	UserFromToken(ctx context.Context, token string) (*entities.User, error)
}

// TeamUsecaseInterface abstracts team and membership operations.
type TeamUsecaseInterface interface {
	CreateTeam(ctx context.Context, name, description string, creator entities.User) (*entities.Team, error)
	ListUserTeams(ctx context.Context, user entities.User) ([]entities.TeamWithRole, error)
	AddTeamMember(ctx context.Context, teamID, username, role string, actor entities.User) (*entities.TeamMember, error)
	ListTeamMembers(ctx context.Context, teamID string, actor entities.User) ([]entities.User, error)
	ListTeammates(ctx context.Context, actor entities.User) ([]entities.User, error)
}

// IssueUsecaseInterface abstracts issue operations for the delivery layer.
type IssueUsecaseInterface interface {
	CreateIssue(ctx context.Context, issue entities.Issue, creator entities.User) (*entities.Issue, error)
	GetIssue(ctx context.Context, issueID string, actor entities.User) (*entities.Issue, error)
	ListIssues(ctx context.Context, actor entities.User, filter entities.IssueFilter, teamID string) ([]entities.Issue, int64, error)
	UpdateIssue(ctx context.Context, issueID string, update entities.IssueUpdate, actor entities.User) (*entities.Issue, error)
	DeleteIssue(ctx context.Context, issueID string, actor entities.User) error
	ListAssignedIssues(ctx context.Context, userID string) ([]entities.Issue, error)
}

// NotificationUsecaseInterface abstracts the durable inbox operations.
type NotificationUsecaseInterface interface {
	ListNotifications(ctx context.Context, user entities.User, page, size int, unreadOnly bool) (entities.NotificationPage, error)
	MarkNotificationRead(ctx context.Context, user entities.User, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, user entities.User) (int64, error)
	UnreadCount(ctx context.Context, user entities.User) (int64, error)
}
