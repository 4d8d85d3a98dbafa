package handlers_fiber

import (
	"fmt"
	"net/http"

	"github.com/jaykukadiya/Issue-tracker/internal/mapper"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns one page of the caller's inbox, newest first.
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	page, err := h.uc.ListNotifications(c.UserContext(), user,
		c.QueryInt("page", 1), c.QueryInt("size", 20), c.QueryBool("unread_only", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTONotificationList(page))
}

// GetUnreadCount returns the caller's unread counter.
func (h *Handler) GetUnreadCount(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	count, err := h.uc.UnreadCount(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.UnreadCountResponse{UnreadCount: count})
}

// PutNotificationRead marks one of the caller's notifications read.
func (h *Handler) PutNotificationRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.MarkNotificationRead(c.UserContext(), user, c.Params("notificationId")); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.MessageResponse{Message: "notification marked as read"})
}

// PutAllNotificationsRead marks the caller's whole inbox read.
func (h *Handler) PutAllNotificationsRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	n, err := h.uc.MarkAllNotificationsRead(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Marked %d notifications as read", n),
	})
}
