package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/identity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Identity reference fields are declared as interface{} because legacy rows
// carry either a raw ObjectID or its hex string; identity.FromValue
// canonicalizes on read, and writes always store the canonical string.
type teamDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedBy   interface{}        `bson:"created_by"`
	IsActive    bool               `bson:"is_active"`
	MemberCount int                `bson:"member_count"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d teamDoc) toEntity() entities.Team {
	return entities.Team{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedBy:   identity.FromValue(d.CreatedBy).String(),
		IsActive:    d.IsActive,
		MemberCount: d.MemberCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type memberDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	TeamID   string             `bson:"team_id"`
	UserID   interface{}        `bson:"user_id"`
	Username string             `bson:"username"`
	Role     string             `bson:"role"`
	AddedBy  interface{}        `bson:"added_by"`
	AddedAt  time.Time          `bson:"added_at"`
	IsActive bool               `bson:"is_active"`
}

func (d memberDoc) toEntity() entities.TeamMember {
	return entities.TeamMember{
		ID:       d.ID.Hex(),
		TeamID:   d.TeamID,
		UserID:   identity.FromValue(d.UserID).String(),
		Username: d.Username,
		Role:     d.Role,
		AddedBy:  identity.FromValue(d.AddedBy).String(),
		AddedAt:  d.AddedAt,
		IsActive: d.IsActive,
	}
}

// CreateTeam inserts a team and its creator as the admin member.
func (m *Mongo) CreateTeam(ctx context.Context, team entities.Team, creator entities.User) (*entities.Team, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	doc := teamDoc{
		Name:        team.Name,
		Description: team.Description,
		CreatedBy:   identity.Normalize(creator.ID).String(),
		IsActive:    true,
		MemberCount: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := m.db.Collection(collTeams).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	member := memberDoc{
		TeamID:   doc.ID.Hex(),
		UserID:   identity.Normalize(creator.ID).String(),
		Username: creator.Username,
		Role:     entities.RoleAdmin,
		AddedBy:  identity.Normalize(creator.ID).String(),
		AddedAt:  now,
		IsActive: true,
	}
	if _, err := m.db.Collection(collTeamMembers).InsertOne(ctx, member); err != nil {
		return nil, fmt.Errorf("insert admin membership: %w", err)
	}

	created := doc.toEntity()
	m.log.Infow("team created", "team_id", created.ID, "name", created.Name)
	return &created, nil
}

// GetTeam fetches an active team by id.
func (m *Mongo) GetTeam(ctx context.Context, teamID string) (*entities.Team, error) {
	oid, err := primitive.ObjectIDFromHex(string(identity.Normalize(teamID)))
	if err != nil {
		return nil, entities.ErrTeamNotFound
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	var doc teamDoc
	err = m.db.Collection(collTeams).
		FindOne(ctx, bson.M{"_id": oid, "is_active": true}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	t := doc.toEntity()
	return &t, nil
}

// ListUserTeams returns active teams the user belongs to, annotated with the
// user's role and the live member count.
func (m *Mongo) ListUserTeams(ctx context.Context, userID string) ([]entities.TeamWithRole, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	cur, err := m.db.Collection(collTeamMembers).Find(ctx, bson.M{
		"user_id":   bson.M{"$in": identity.Forms(userID)},
		"is_active": true,
	})
	if err != nil {
		return nil, fmt.Errorf("find memberships: %w", err)
	}
	defer cur.Close(ctx)

	teams := make([]entities.TeamWithRole, 0)
	for cur.Next(ctx) {
		var member memberDoc
		if err := cur.Decode(&member); err != nil {
			return nil, fmt.Errorf("decode membership: %w", err)
		}

		team, err := m.GetTeam(ctx, member.TeamID)
		if err != nil {
			if errors.Is(err, entities.ErrTeamNotFound) {
				continue
			}
			return nil, err
		}

		count, err := m.db.Collection(collTeamMembers).CountDocuments(ctx, bson.M{
			"team_id":   member.TeamID,
			"is_active": true,
		})
		if err != nil {
			return nil, fmt.Errorf("count members: %w", err)
		}
		team.MemberCount = int(count)

		teams = append(teams, entities.TeamWithRole{Team: *team, UserRole: member.Role})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	return teams, nil
}

// AddTeamMember inserts an active membership and bumps the team's member count.
// At most one active membership may exist per (team, user).
func (m *Mongo) AddTeamMember(ctx context.Context, member entities.TeamMember) (*entities.TeamMember, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	existing, err := m.GetMembership(ctx, member.TeamID, member.UserID)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, entities.ErrAlreadyMember
	}

	doc := memberDoc{
		TeamID:   member.TeamID,
		UserID:   identity.Normalize(member.UserID).String(),
		Username: member.Username,
		Role:     member.Role,
		AddedBy:  identity.Normalize(member.AddedBy).String(),
		AddedAt:  time.Now().UTC(),
		IsActive: true,
	}

	res, err := m.db.Collection(collTeamMembers).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entities.ErrAlreadyMember
		}
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	if oid, err := primitive.ObjectIDFromHex(member.TeamID); err == nil {
		_, err = m.db.Collection(collTeams).UpdateOne(ctx,
			bson.M{"_id": oid},
			bson.M{"$inc": bson.M{"member_count": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("bump member count: %w", err)
		}
	}

	created := doc.toEntity()
	m.log.Infow("team member added", "team_id", member.TeamID, "user_id", created.UserID, "role", created.Role)
	return &created, nil
}

// GetMembership returns the user's active membership in a team, matching the
// stored reference under both encodings.
func (m *Mongo) GetMembership(ctx context.Context, teamID, userID string) (*entities.TeamMember, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	var doc memberDoc
	err := m.db.Collection(collTeamMembers).FindOne(ctx, bson.M{
		"team_id":   teamID,
		"user_id":   bson.M{"$in": identity.Forms(userID)},
		"is_active": true,
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	member := doc.toEntity()
	return &member, nil
}

// ListTeamMembers returns all active memberships of a team.
func (m *Mongo) ListTeamMembers(ctx context.Context, teamID string) ([]entities.TeamMember, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	cur, err := m.db.Collection(collTeamMembers).Find(ctx, bson.M{
		"team_id":   teamID,
		"is_active": true,
	})
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	defer cur.Close(ctx)

	members := make([]entities.TeamMember, 0)
	for cur.Next(ctx) {
		var doc memberDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		members = append(members, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// AccessibleTeamIDs unions the teams the user has an active membership in with
// the active teams the user created.
func (m *Mongo) AccessibleTeamIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	seen := make(map[string]struct{})
	ids := make([]string, 0)

	cur, err := m.db.Collection(collTeamMembers).Find(ctx, bson.M{
		"user_id":   bson.M{"$in": identity.Forms(userID)},
		"is_active": true,
	})
	if err != nil {
		return nil, fmt.Errorf("find memberships: %w", err)
	}
	for cur.Next(ctx) {
		var doc memberDoc
		if err := cur.Decode(&doc); err != nil {
			cur.Close(ctx)
			return nil, fmt.Errorf("decode membership: %w", err)
		}
		if _, ok := seen[doc.TeamID]; !ok {
			seen[doc.TeamID] = struct{}{}
			ids = append(ids, doc.TeamID)
		}
	}
	if err := cur.Err(); err != nil {
		cur.Close(ctx)
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	cur.Close(ctx)

	cur, err = m.db.Collection(collTeams).Find(ctx, bson.M{
		"created_by": bson.M{"$in": identity.Forms(userID)},
		"is_active":  true,
	})
	if err != nil {
		return nil, fmt.Errorf("find created teams: %w", err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc teamDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		id := doc.ID.Hex()
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate created teams: %w", err)
	}

	return ids, nil
}
