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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type issueDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	Tags        []string           `bson:"tags"`
	TeamID      string             `bson:"team_id"`
	AssignedTo  interface{}        `bson:"assigned_to,omitempty"`
	CreatedBy   interface{}        `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d issueDoc) toEntity() entities.Issue {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return entities.Issue{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      entities.IssueStatus(d.Status),
		Priority:    entities.IssuePriority(d.Priority),
		Tags:        tags,
		TeamID:      d.TeamID,
		AssignedTo:  identity.FromValue(d.AssignedTo).String(),
		CreatedBy:   identity.FromValue(d.CreatedBy).String(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// CreateIssue inserts a new issue.
func (m *Mongo) CreateIssue(ctx context.Context, issue entities.Issue) (*entities.Issue, error) {
	now := time.Now().UTC()
	doc := issueDoc{
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		Tags:        issue.Tags,
		TeamID:      issue.TeamID,
		CreatedBy:   identity.Normalize(issue.CreatedBy).String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if issue.AssignedTo != "" {
		doc.AssignedTo = identity.Normalize(issue.AssignedTo).String()
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collIssues).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	created := doc.toEntity()
	m.log.Infow("issue created", "issue_id", created.ID, "team_id", created.TeamID)
	return &created, nil
}

// GetIssue fetches an issue by id.
func (m *Mongo) GetIssue(ctx context.Context, issueID string) (*entities.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(string(identity.Normalize(issueID)))
	if err != nil {
		return nil, entities.ErrIssueNotFound
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	var doc issueDoc
	err = m.db.Collection(collIssues).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrIssueNotFound
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	issue := doc.toEntity()
	return &issue, nil
}

// ListIssues returns a page of issues matching the filter plus the total count.
// An empty allowed-team set yields zero results without error.
func (m *Mongo) ListIssues(ctx context.Context, filter entities.IssueFilter) ([]entities.Issue, int64, error) {
	if len(filter.TeamIDs) == 0 {
		return []entities.Issue{}, 0, nil
	}

	query := bson.M{"team_id": bson.M{"$in": filter.TeamIDs}}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.Priority != nil {
		query["priority"] = string(*filter.Priority)
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	if filter.CreatedBy != "" {
		query["created_by"] = bson.M{"$in": identity.Forms(filter.CreatedBy)}
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	coll := m.db.Collection(collIssues)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	skip := int64((filter.Page - 1) * filter.Size)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.Size))

	cur, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find issues: %w", err)
	}
	defer cur.Close(ctx)

	issues := make([]entities.Issue, 0, filter.Size)
	for cur.Next(ctx) {
		var doc issueDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode issue: %w", err)
		}
		issues = append(issues, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, total, nil
}

// ListAssignedIssues returns issues assigned to the user under either encoding.
func (m *Mongo) ListAssignedIssues(ctx context.Context, userID string) ([]entities.Issue, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	cur, err := m.db.Collection(collIssues).Find(ctx,
		bson.M{"assigned_to": bson.M{"$in": identity.Forms(userID)}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find assigned issues: %w", err)
	}
	defer cur.Close(ctx)

	issues := make([]entities.Issue, 0)
	for cur.Next(ctx) {
		var doc issueDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode issue: %w", err)
		}
		issues = append(issues, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return issues, nil
}

// UpdateIssue applies the non-nil update fields and returns the updated issue.
func (m *Mongo) UpdateIssue(ctx context.Context, issueID string, update entities.IssueUpdate) (*entities.Issue, error) {
	oid, err := primitive.ObjectIDFromHex(string(identity.Normalize(issueID)))
	if err != nil {
		return nil, entities.ErrIssueNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.Priority != nil {
		set["priority"] = string(*update.Priority)
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}
	if update.AssignedTo != nil {
		set["assigned_to"] = identity.Normalize(*update.AssignedTo).String()
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collIssues).UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, entities.ErrIssueNotFound
	}

	return m.GetIssue(ctx, issueID)
}

// DeleteIssue removes an issue permanently.
func (m *Mongo) DeleteIssue(ctx context.Context, issueID string) error {
	oid, err := primitive.ObjectIDFromHex(string(identity.Normalize(issueID)))
	if err != nil {
		return entities.ErrIssueNotFound
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collIssues).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return entities.ErrIssueNotFound
	}
	m.log.Infow("issue deleted", "issue_id", issueID)
	return nil
}
