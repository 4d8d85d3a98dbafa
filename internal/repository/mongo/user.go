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

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FullName     string             `bson:"full_name,omitempty"`
	PasswordHash string             `bson:"hashed_password"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d userDoc) toEntity() entities.User {
	return entities.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Email:     d.Email,
		FullName:  d.FullName,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreateUser inserts a new account with its password hash.
func (m *Mongo) CreateUser(ctx context.Context, user entities.User, passwordHash string) (*entities.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collUsers).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, entities.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	created := doc.toEntity()
	m.log.Infow("user created", "user_id", created.ID, "username", created.Username)
	return &created, nil
}

// GetUserByID fetches a user by its canonical identifier.
func (m *Mongo) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	oid, err := primitive.ObjectIDFromHex(string(identity.Normalize(userID)))
	if err != nil {
		return nil, entities.ErrUserNotFound
	}
	return m.findUser(ctx, bson.M{"_id": oid})
}

// GetUserByUsername fetches a user by username.
func (m *Mongo) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return m.findUser(ctx, bson.M{"username": username})
}

// GetUserByEmail fetches a user by email.
func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

// GetCredentials fetches a user together with its stored password hash.
func (m *Mongo) GetCredentials(ctx context.Context, username string) (*entities.Credentials, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	var doc userDoc
	err := m.db.Collection(collUsers).FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return &entities.Credentials{User: doc.toEntity(), PasswordHash: doc.PasswordHash}, nil
}

// GetUsersByIDs fetches users for a set of references, skipping unparseable ones.
func (m *Mongo) GetUsersByIDs(ctx context.Context, userIDs []string) ([]entities.User, error) {
	oids := make([]primitive.ObjectID, 0, len(userIDs))
	for _, id := range userIDs {
		if oid, err := primitive.ObjectIDFromHex(string(identity.Normalize(id))); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []entities.User{}, nil
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	cur, err := m.db.Collection(collUsers).Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]entities.User, 0, len(oids))
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (m *Mongo) findUser(ctx context.Context, filter bson.M) (*entities.User, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	var doc userDoc
	err := m.db.Collection(collUsers).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := doc.toEntity()
	return &u, nil
}
