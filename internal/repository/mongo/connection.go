// Package mongo implements the repository against MongoDB.
package mongo

import (
	"context"
	"fmt"

	"github.com/jaykukadiya/Issue-tracker/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	collUsers         = "users"
	collTeams         = "teams"
	collTeamMembers   = "team_members"
	collIssues        = "issues"
	collNotifications = "notifications"
)

// Mongo wraps a mongo client and configuration.
type Mongo struct {
	baseCtx context.Context
	log     *zap.SugaredLogger
	client  *mongo.Client
	db      *mongo.Database
	cfg     config.MongoConfig
}

// New creates a Mongo repository instance.
func New(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) *Mongo {
	return &Mongo{
		baseCtx: ctx,
		log:     log.Named("repo.mongo"),
		cfg:     cfg.Mongo,
	}
}

// OnStart establishes the client connection and builds indexes.
func (m *Mongo) OnStart(_ context.Context) error {
	connectCtx, cancel := context.WithTimeout(m.baseCtx, m.cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.cfg.URI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}

	m.client = client
	m.db = client.Database(m.cfg.Database)

	if err := m.createIndexes(connectCtx); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	m.log.Infow("mongo ready", "database", m.cfg.Database)
	return nil
}

// queryCtx bounds a single query with the configured timeout. A zero timeout
// leaves the caller's context untouched.
func (m *Mongo) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.cfg.QueryTimeout)
}

// OnStop closes the client connection.
func (m *Mongo) OnStop(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

func (m *Mongo) createIndexes(ctx context.Context) error {
	_, err := m.db.Collection(collUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = m.db.Collection(collIssues).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("issues indexes: %w", err)
	}

	// Uniqueness is scoped to active memberships so a re-added user does not
	// collide with a soft-deleted row.
	_, err = m.db.Collection(collTeamMembers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_active": true}),
	})
	if err != nil {
		return fmt.Errorf("team_members index: %w", err)
	}

	_, err = m.db.Collection(collNotifications).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("notifications indexes: %w", err)
	}

	return nil
}
