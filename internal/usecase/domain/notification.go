// Package domain contains application usecases orchestrating domain logic by notification.
package domain

import (
	"context"
	"fmt"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
)

// ListNotifications returns one page of the user's inbox.
func (u *Usecase) ListNotifications(ctx context.Context, user entities.User, page, size int, unreadOnly bool) (entities.NotificationPage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return u.repo.ListNotifications(ctx, user.ID, page, size, unreadOnly)
}

// MarkNotificationRead marks one of the user's notifications read.
func (u *Usecase) MarkNotificationRead(ctx context.Context, user entities.User, notificationID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if notificationID == "" {
		return fmt.Errorf("%w: notification_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.MarkNotificationRead(ctx, user.ID, notificationID)
}

// MarkAllNotificationsRead marks the user's unread notifications read and
// reports how many changed.
func (u *Usecase) MarkAllNotificationsRead(ctx context.Context, user entities.User) (int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.MarkAllNotificationsRead(ctx, user.ID)
}

// UnreadCount counts the user's unread notifications.
func (u *Usecase) UnreadCount(ctx context.Context, user entities.User) (int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.CountUnread(ctx, user.ID)
}
