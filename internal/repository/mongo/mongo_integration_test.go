package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/jaykukadiya/Issue-tracker/config"
	"github.com/jaykukadiya/Issue-tracker/internal/entities"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupMongo(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	alice, err := repo.CreateUser(ctx, entities.User{Username: "alice", Email: "alice@example.com", IsActive: true}, "hash-a")
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)
	bob, err := repo.CreateUser(ctx, entities.User{Username: "bob", Email: "bob@example.com", IsActive: true}, "hash-b")
	require.NoError(t, err)
	carol, err := repo.CreateUser(ctx, entities.User{Username: "carol", Email: "carol@example.com", IsActive: true}, "hash-c")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, entities.User{Username: "alice", Email: "other@example.com"}, "x")
	require.ErrorIs(t, err, entities.ErrUserExists)

	creds, err := repo.GetCredentials(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "hash-a", creds.PasswordHash)

	team, err := repo.CreateTeam(ctx, entities.Team{Name: "core", Description: "core team"}, *alice)
	require.NoError(t, err)
	require.Equal(t, 1, team.MemberCount)

	membership, err := repo.GetMembership(ctx, team.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, entities.RoleAdmin, membership.Role)

	member, err := repo.AddTeamMember(ctx, entities.TeamMember{
		TeamID: team.ID, UserID: bob.ID, Username: bob.Username,
		Role: entities.RoleMember, AddedBy: alice.ID,
	})
	require.NoError(t, err)
	require.True(t, member.IsActive)

	_, err = repo.AddTeamMember(ctx, entities.TeamMember{
		TeamID: team.ID, UserID: bob.ID, Username: bob.Username, Role: entities.RoleMember,
	})
	require.ErrorIs(t, err, entities.ErrAlreadyMember)

	fetched, err := repo.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, 2, fetched.MemberCount)

	bobTeams, err := repo.ListUserTeams(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobTeams, 1)
	require.Equal(t, entities.RoleMember, bobTeams[0].UserRole)

	// creator access survives even without iterating memberships
	aliceAccessible, err := repo.AccessibleTeamIDs(ctx, alice.ID)
	require.NoError(t, err)
	require.Contains(t, aliceAccessible, team.ID)

	carolAccessible, err := repo.AccessibleTeamIDs(ctx, carol.ID)
	require.NoError(t, err)
	require.Empty(t, carolAccessible)

	issue, err := repo.CreateIssue(ctx, entities.Issue{
		Title: "login broken", Description: "500 on POST /login",
		Status: entities.StatusOpen, Priority: entities.PriorityHigh,
		TeamID: team.ID, CreatedBy: alice.ID, AssignedTo: bob.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, issue.ID)

	second, err := repo.CreateIssue(ctx, entities.Issue{
		Title: "slow dashboard", Description: "p95 over 3s",
		Status: entities.StatusOpen, Priority: entities.PriorityLow,
		TeamID: team.ID, CreatedBy: alice.ID,
	})
	require.NoError(t, err)

	issues, total, err := repo.ListIssues(ctx, entities.IssueFilter{TeamIDs: []string{team.ID}, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, issues, 2)
	// newest first
	require.Equal(t, second.ID, issues[0].ID)

	// empty accessible set short-circuits to an empty page
	none, zero, err := repo.ListIssues(ctx, entities.IssueFilter{TeamIDs: []string{}, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Zero(t, zero)
	require.Empty(t, none)

	high := entities.PriorityHigh
	filtered, _, err := repo.ListIssues(ctx, entities.IssueFilter{
		TeamIDs: []string{team.ID}, Priority: &high, Page: 1, Size: 10,
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, issue.ID, filtered[0].ID)

	searched, _, err := repo.ListIssues(ctx, entities.IssueFilter{
		TeamIDs: []string{team.ID}, Search: "LOGIN", Page: 1, Size: 10,
	})
	require.NoError(t, err)
	require.Len(t, searched, 1)

	assigned, err := repo.ListAssignedIssues(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)

	status := entities.StatusInProgress
	updated, err := repo.UpdateIssue(ctx, issue.ID, entities.IssueUpdate{Status: &status})
	require.NoError(t, err)
	require.Equal(t, entities.StatusInProgress, updated.Status)

	_, err = repo.UpdateIssue(ctx, "ffffffffffffffffffffffff", entities.IssueUpdate{Status: &status})
	require.ErrorIs(t, err, entities.ErrIssueNotFound)

	require.NoError(t, repo.DeleteIssue(ctx, second.ID))
	_, err = repo.GetIssue(ctx, second.ID)
	require.ErrorIs(t, err, entities.ErrIssueNotFound)
}

func TestNotificationInboxIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupMongo(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	alice, err := repo.CreateUser(ctx, entities.User{Username: "alice", Email: "alice@example.com", IsActive: true}, "h")
	require.NoError(t, err)
	bob, err := repo.CreateUser(ctx, entities.User{Username: "bob", Email: "bob@example.com", IsActive: true}, "h")
	require.NoError(t, err)

	var lastID string
	for _, title := range []string{"first", "second", "third"} {
		id, err := repo.CreateNotification(ctx, entities.Notification{
			Type: entities.NotificationIssueAssigned, Title: title,
			Message: "m", UserID: alice.ID,
		})
		require.NoError(t, err)
		lastID = id
	}
	_, err = repo.CreateNotification(ctx, entities.Notification{
		Type: entities.NotificationTeamInvite, Title: "for bob", Message: "m", UserID: bob.ID,
	})
	require.NoError(t, err)

	page, err := repo.ListNotifications(ctx, alice.ID, 1, 2, false)
	require.NoError(t, err)
	require.Equal(t, int64(3), page.Total)
	require.Equal(t, int64(3), page.UnreadCount)
	require.Len(t, page.Items, 2)
	// newest first, so the last insert leads the page
	require.Equal(t, lastID, page.Items[0].ID)

	// the inbox is scoped per user
	bobPage, err := repo.ListNotifications(ctx, bob.ID, 1, 10, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), bobPage.Total)

	// ownership check: bob cannot mark alice's notification read
	err = repo.MarkNotificationRead(ctx, bob.ID, lastID)
	require.ErrorIs(t, err, entities.ErrNotificationNotFound)

	require.NoError(t, repo.MarkNotificationRead(ctx, alice.ID, lastID))
	unread, err := repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), unread)

	onlyUnread, err := repo.ListNotifications(ctx, alice.ID, 1, 10, true)
	require.NoError(t, err)
	require.Len(t, onlyUnread.Items, 2)

	changed, err := repo.MarkAllNotificationsRead(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), changed)

	unread, err = repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, unread)
}

func setupMongo(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	uri := "mongodb://localhost:" + resource.GetPort("27017/tcp")

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Mongo: config.MongoConfig{
			URI:            uri,
			Database:       "issue_tracker_test",
			ConnectTimeout: 20 * time.Second,
			QueryTimeout:   10 * time.Second,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		return client.Ping(pingCtx, nil)
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
