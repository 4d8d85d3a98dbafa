package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/identity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type notificationDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Type          string             `bson:"type"`
	Title         string             `bson:"title"`
	Message       string             `bson:"message"`
	IssueID       string             `bson:"issue_id,omitempty"`
	RelatedUserID string             `bson:"related_user_id,omitempty"`
	UserID        string             `bson:"user_id"`
	IsRead        bool               `bson:"is_read"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d notificationDoc) toEntity() entities.Notification {
	return entities.Notification{
		ID:            d.ID.Hex(),
		Type:          entities.NotificationType(d.Type),
		Title:         d.Title,
		Message:       d.Message,
		IssueID:       d.IssueID,
		RelatedUserID: d.RelatedUserID,
		UserID:        d.UserID,
		IsRead:        d.IsRead,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// CreateNotification appends a durable inbox record and returns its id.
func (m *Mongo) CreateNotification(ctx context.Context, n entities.Notification) (string, error) {
	now := time.Now().UTC()
	doc := notificationDoc{
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		IssueID:       n.IssueID,
		RelatedUserID: n.RelatedUserID,
		UserID:        identity.Normalize(n.UserID).String(),
		IsRead:        false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collNotifications).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert notification: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	m.log.Infow("notification created", "notification_id", id, "user_id", doc.UserID, "type", doc.Type)
	return id, nil
}

// ListNotifications returns one page of the user's inbox, newest first, with
// the total and the full unread count.
func (m *Mongo) ListNotifications(ctx context.Context, userID string, page, size int, unreadOnly bool) (entities.NotificationPage, error) {
	uid := identity.Normalize(userID).String()
	filter := bson.M{"user_id": uid}
	if unreadOnly {
		filter["is_read"] = false
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	coll := m.db.Collection(collNotifications)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return entities.NotificationPage{}, fmt.Errorf("count notifications: %w", err)
	}
	unread, err := m.CountUnread(ctx, userID)
	if err != nil {
		return entities.NotificationPage{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return entities.NotificationPage{}, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]entities.Notification, 0, size)
	for cur.Next(ctx) {
		var doc notificationDoc
		if err := cur.Decode(&doc); err != nil {
			return entities.NotificationPage{}, fmt.Errorf("decode notification: %w", err)
		}
		items = append(items, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return entities.NotificationPage{}, fmt.Errorf("iterate notifications: %w", err)
	}

	return entities.NotificationPage{Items: items, Total: total, UnreadCount: unread}, nil
}

// MarkNotificationRead marks one record read. The ownership check is part of
// the filter: a record belonging to someone else reads as not found.
func (m *Mongo) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return entities.ErrNotificationNotFound
	}

	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collNotifications).UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": identity.Normalize(userID).String()},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return entities.ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread record read and returns how many
// actually changed.
func (m *Mongo) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	res, err := m.db.Collection(collNotifications).UpdateMany(ctx,
		bson.M{"user_id": identity.Normalize(userID).String(), "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return res.ModifiedCount, nil
}

// CountUnread counts the user's unread records.
func (m *Mongo) CountUnread(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := m.queryCtx(ctx)
	defer cancel()

	count, err := m.db.Collection(collNotifications).CountDocuments(ctx, bson.M{
		"user_id": identity.Normalize(userID).String(),
		"is_read": false,
	})
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
