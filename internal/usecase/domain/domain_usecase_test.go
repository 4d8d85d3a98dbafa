package domain

import (
	"context"
	"testing"
	"time"

	"github.com/jaykukadiya/Issue-tracker/config"
	"github.com/jaykukadiya/Issue-tracker/internal/auth"
	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/notify"
	"github.com/jaykukadiya/Issue-tracker/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) CreateUser(ctx context.Context, user entities.User, passwordHash string) (*entities.User, error) {
	args := m.Called(ctx, user, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) GetCredentials(ctx context.Context, username string) (*entities.Credentials, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credentials), args.Error(1)
}

func (m *repoMock) GetUsersByIDs(ctx context.Context, userIDs []string) ([]entities.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.User), args.Error(1)
}

func (m *repoMock) CreateTeam(ctx context.Context, team entities.Team, creator entities.User) (*entities.Team, error) {
	args := m.Called(ctx, team, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) GetTeam(ctx context.Context, teamID string) (*entities.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) ListUserTeams(ctx context.Context, userID string) ([]entities.TeamWithRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TeamWithRole), args.Error(1)
}

func (m *repoMock) AddTeamMember(ctx context.Context, member entities.TeamMember) (*entities.TeamMember, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamMember), args.Error(1)
}

func (m *repoMock) GetMembership(ctx context.Context, teamID, userID string) (*entities.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamMember), args.Error(1)
}

func (m *repoMock) ListTeamMembers(ctx context.Context, teamID string) ([]entities.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TeamMember), args.Error(1)
}

func (m *repoMock) AccessibleTeamIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *repoMock) CreateIssue(ctx context.Context, issue entities.Issue) (*entities.Issue, error) {
	args := m.Called(ctx, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *repoMock) GetIssue(ctx context.Context, issueID string) (*entities.Issue, error) {
	args := m.Called(ctx, issueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *repoMock) ListIssues(ctx context.Context, filter entities.IssueFilter) ([]entities.Issue, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entities.Issue), args.Get(1).(int64), args.Error(2)
}

func (m *repoMock) ListAssignedIssues(ctx context.Context, userID string) ([]entities.Issue, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Issue), args.Error(1)
}

func (m *repoMock) UpdateIssue(ctx context.Context, issueID string, update entities.IssueUpdate) (*entities.Issue, error) {
	args := m.Called(ctx, issueID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *repoMock) DeleteIssue(ctx context.Context, issueID string) error {
	args := m.Called(ctx, issueID)
	return args.Error(0)
}

func (m *repoMock) CreateNotification(ctx context.Context, n entities.Notification) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *repoMock) ListNotifications(ctx context.Context, userID string, page, size int, unreadOnly bool) (entities.NotificationPage, error) {
	args := m.Called(ctx, userID, page, size, unreadOnly)
	return args.Get(0).(entities.NotificationPage), args.Error(1)
}

func (m *repoMock) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *repoMock) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestUsecase(repo *repoMock) *Usecase {
	log := zap.NewNop().Sugar()
	dispatcher := notify.NewDispatcher(log, repo, notify.NewRegistry(log))
	tokens := auth.NewTokenManager(config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour})
	return New(log, context.Background(), repo, dispatcher, tokens, time.Second)
}

var (
	alice = entities.User{ID: "507f1f77bcf86cd799439011", Username: "alice", IsActive: true}
	bob   = entities.User{ID: "507f1f77bcf86cd799439012", Username: "bob", IsActive: true}
	carol = entities.User{ID: "507f1f77bcf86cd799439013", Username: "carol", IsActive: true}
)

func TestUsecase_CreateIssueValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	_, err := uc.CreateIssue(context.Background(), entities.Issue{Title: "x"}, alice)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "CreateIssue", mock.Anything, mock.Anything)
}

func TestUsecase_CreateIssueOutsideAccessibleTeams(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("AccessibleTeamIDs", mock.Anything, alice.ID).Return([]string{"t1", "t2"}, nil)

	_, err := uc.CreateIssue(context.Background(), entities.Issue{
		Title: "x", Description: "y", TeamID: "t9",
	}, alice)
	require.ErrorIs(t, err, entities.ErrForbidden)
	repo.AssertNotCalled(t, "CreateIssue", mock.Anything, mock.Anything)
}

func TestUsecase_CreateIssueDefaultsAndCreator(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("AccessibleTeamIDs", mock.Anything, alice.ID).Return([]string{"t1"}, nil)
	repo.On("CreateIssue", mock.Anything, mock.MatchedBy(func(i entities.Issue) bool {
		return i.Status == entities.StatusOpen && i.Priority == entities.PriorityMedium && i.CreatedBy == alice.ID
	})).Return(&entities.Issue{ID: "i1", TeamID: "t1", CreatedBy: alice.ID}, nil)

	issue, err := uc.CreateIssue(context.Background(), entities.Issue{
		Title: "x", Description: "y", TeamID: "t1",
	}, alice)
	require.NoError(t, err)
	require.Equal(t, "i1", issue.ID)
	repo.AssertExpectations(t)
}

func TestUsecase_GetIssueForbiddenOutsideTeams(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("GetIssue", mock.Anything, "i1").
		Return(&entities.Issue{ID: "i1", TeamID: "t9", CreatedBy: bob.ID}, nil)
	repo.On("AccessibleTeamIDs", mock.Anything, alice.ID).Return([]string{"t1"}, nil)

	_, err := uc.GetIssue(context.Background(), "i1", alice)
	require.ErrorIs(t, err, entities.ErrForbidden)
}

func TestUsecase_ListIssuesScopesToAccessibleTeams(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("AccessibleTeamIDs", mock.Anything, alice.ID).Return([]string{"t1", "t2"}, nil)
	repo.On("ListIssues", mock.Anything, mock.MatchedBy(func(f entities.IssueFilter) bool {
		return len(f.TeamIDs) == 2 && f.Page == 1 && f.Size == 10
	})).Return([]entities.Issue{{ID: "i1"}}, int64(1), nil)

	issues, total, err := uc.ListIssues(context.Background(), alice, entities.IssueFilter{}, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, issues, 1)
	repo.AssertExpectations(t)
}

func TestUsecase_ListIssuesInaccessibleTeamYieldsEmptyNotError(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("AccessibleTeamIDs", mock.Anything, alice.ID).Return([]string{"t1"}, nil)
	repo.On("ListIssues", mock.Anything, mock.MatchedBy(func(f entities.IssueFilter) bool {
		return len(f.TeamIDs) == 0
	})).Return([]entities.Issue{}, int64(0), nil)

	issues, total, err := uc.ListIssues(context.Background(), alice, entities.IssueFilter{}, "t9")
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, issues)
}

func TestUsecase_UpdateIssueForbiddenForBystander(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("GetIssue", mock.Anything, "i1").
		Return(&entities.Issue{ID: "i1", CreatedBy: bob.ID, AssignedTo: carol.ID}, nil)

	title := "new"
	_, err := uc.UpdateIssue(context.Background(), "i1", entities.IssueUpdate{Title: &title}, alice)
	require.ErrorIs(t, err, entities.ErrForbidden)
	repo.AssertNotCalled(t, "UpdateIssue", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_UpdateIssueAllowsAssignee(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	before := &entities.Issue{ID: "i1", CreatedBy: bob.ID, AssignedTo: carol.ID, Status: entities.StatusOpen}
	after := &entities.Issue{ID: "i1", CreatedBy: bob.ID, AssignedTo: carol.ID, Status: entities.StatusClosed}

	repo.On("GetIssue", mock.Anything, "i1").Return(before, nil)
	repo.On("UpdateIssue", mock.Anything, "i1", mock.Anything).Return(after, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.Type == entities.NotificationIssueStatusChanged && n.UserID == carol.ID
	})).Return("n1", nil)

	status := entities.StatusClosed
	updated, err := uc.UpdateIssue(context.Background(), "i1", entities.IssueUpdate{Status: &status}, carol)
	require.NoError(t, err)
	require.Equal(t, entities.StatusClosed, updated.Status)
	repo.AssertExpectations(t)
}

func TestUsecase_UpdateIssueDropsUnresolvableAssignee(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	before := &entities.Issue{ID: "i1", CreatedBy: alice.ID, Status: entities.StatusOpen}
	repo.On("GetIssue", mock.Anything, "i1").Return(before, nil)
	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, entities.ErrUserNotFound)
	repo.On("UpdateIssue", mock.Anything, "i1", mock.MatchedBy(func(u entities.IssueUpdate) bool {
		return u.AssignedTo == nil && u.Title != nil
	})).Return(before, nil)

	title := "renamed"
	ref := "ghost (ghost@example.com)"
	_, err := uc.UpdateIssue(context.Background(), "i1", entities.IssueUpdate{Title: &title, AssignedTo: &ref}, alice)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_UpdateIssueResolvesDisplayAssignee(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	before := &entities.Issue{ID: "i1", CreatedBy: alice.ID, Status: entities.StatusOpen}
	after := &entities.Issue{ID: "i1", CreatedBy: alice.ID, AssignedTo: bob.ID, Status: entities.StatusOpen}

	repo.On("GetIssue", mock.Anything, "i1").Return(before, nil)
	repo.On("GetUserByUsername", mock.Anything, "bob").Return(&bob, nil)
	repo.On("UpdateIssue", mock.Anything, "i1", mock.MatchedBy(func(u entities.IssueUpdate) bool {
		return u.AssignedTo != nil && *u.AssignedTo == bob.ID
	})).Return(after, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.Type == entities.NotificationIssueAssigned && n.UserID == bob.ID
	})).Return("n1", nil)

	ref := "bob (bob@example.com)"
	_, err := uc.UpdateIssue(context.Background(), "i1", entities.IssueUpdate{AssignedTo: &ref}, alice)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_UpdateIssueStatusChangeSuppressesGenericUpdate(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	before := &entities.Issue{ID: "i1", CreatedBy: alice.ID, AssignedTo: bob.ID, Status: entities.StatusOpen}
	after := &entities.Issue{ID: "i1", Title: "new", CreatedBy: alice.ID, AssignedTo: bob.ID, Status: entities.StatusInProgress}

	repo.On("GetIssue", mock.Anything, "i1").Return(before, nil)
	repo.On("UpdateIssue", mock.Anything, "i1", mock.Anything).Return(after, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.Type == entities.NotificationIssueStatusChanged
	})).Return("n1", nil)

	title := "new"
	status := entities.StatusInProgress
	_, err := uc.UpdateIssue(context.Background(), "i1", entities.IssueUpdate{Title: &title, Status: &status}, alice)
	require.NoError(t, err)

	repo.AssertExpectations(t)
	for _, call := range repo.Calls {
		if call.Method == "CreateNotification" {
			n := call.Arguments.Get(1).(entities.Notification)
			require.NotEqual(t, entities.NotificationIssueUpdated, n.Type)
		}
	}
}

func TestUsecase_DeleteIssueCreatorOnly(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	issue := &entities.Issue{ID: "i1", CreatedBy: bob.ID, AssignedTo: carol.ID}
	repo.On("GetIssue", mock.Anything, "i1").Return(issue, nil)

	err := uc.DeleteIssue(context.Background(), "i1", carol)
	require.ErrorIs(t, err, entities.ErrForbidden)
	repo.AssertNotCalled(t, "DeleteIssue", mock.Anything, mock.Anything)

	repo.On("DeleteIssue", mock.Anything, "i1").Return(nil)
	require.NoError(t, uc.DeleteIssue(context.Background(), "i1", bob))
}

func TestUsecase_AddTeamMemberRequiresAdmin(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("GetMembership", mock.Anything, "t1", alice.ID).
		Return(&entities.TeamMember{TeamID: "t1", UserID: alice.ID, Role: entities.RoleMember}, nil)

	_, err := uc.AddTeamMember(context.Background(), "t1", "bob", "", alice)
	require.ErrorIs(t, err, entities.ErrForbidden)
	repo.AssertNotCalled(t, "AddTeamMember", mock.Anything, mock.Anything)
}

func TestUsecase_AddTeamMemberNotifiesInvitee(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("GetMembership", mock.Anything, "t1", alice.ID).
		Return(&entities.TeamMember{TeamID: "t1", UserID: alice.ID, Role: entities.RoleAdmin}, nil)
	repo.On("GetUserByUsername", mock.Anything, "bob").Return(&bob, nil)
	repo.On("AddTeamMember", mock.Anything, mock.MatchedBy(func(m entities.TeamMember) bool {
		return m.TeamID == "t1" && m.UserID == bob.ID && m.Role == entities.RoleMember && m.AddedBy == alice.ID
	})).Return(&entities.TeamMember{ID: "m1", TeamID: "t1", UserID: bob.ID, Role: entities.RoleMember}, nil)
	repo.On("GetTeam", mock.Anything, "t1").Return(&entities.Team{ID: "t1", Name: "core"}, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.Type == entities.NotificationTeamInvite && n.UserID == bob.ID
	})).Return("n1", nil)

	member, err := uc.AddTeamMember(context.Background(), "t1", "bob", "", alice)
	require.NoError(t, err)
	require.Equal(t, "m1", member.ID)
	repo.AssertExpectations(t)
}

func TestUsecase_RegisterValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	_, err := uc.Register(context.Background(), entities.User{Username: "ab", Email: "a@b.c"}, "secret1")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = uc.Register(context.Background(), entities.User{Username: "abc", Email: "a@b.c"}, "short")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_LoginWrongPassword(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetCredentials", mock.Anything, "alice").
		Return(&entities.Credentials{User: alice, PasswordHash: string(hash)}, nil)

	_, err = uc.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestUsecase_LoginUnknownUserIsUnauthorized(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("GetCredentials", mock.Anything, "ghost").Return(nil, entities.ErrUserNotFound)

	_, err := uc.Login(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestUsecase_LoginAndUserFromTokenRoundTrip(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetCredentials", mock.Anything, "alice").
		Return(&entities.Credentials{User: alice, PasswordHash: string(hash)}, nil)
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(&alice, nil)

	token, err := uc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := uc.UserFromToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, alice.ID, user.ID)
}

func TestUsecase_MarkNotificationReadValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	err := uc.MarkNotificationRead(context.Background(), alice, "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "MarkNotificationRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_ListNotificationsClampsPaging(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(repo)

	repo.On("ListNotifications", mock.Anything, alice.ID, 1, 20, false).
		Return(entities.NotificationPage{Total: 0, UnreadCount: 0}, nil)

	_, err := uc.ListNotifications(context.Background(), alice, -3, 5000, false)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
