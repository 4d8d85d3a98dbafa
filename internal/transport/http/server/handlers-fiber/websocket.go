package handlers_fiber

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func closeDeadline() time.Time {
	return time.Now().Add(time.Second)
}

// WebsocketUpgrade rejects plain HTTP requests on the websocket route.
func WebsocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// NotificationsSocket serves the realtime notification stream. Clients
// authenticate with a token query parameter; an invalid token closes the
// socket with a policy violation. The read loop answers "ping" with "pong"
// and otherwise ignores inbound frames.
func (h *Handler) NotificationsSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token := conn.Query("token")
		if token == "" {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "missing token"), closeDeadline())
			_ = conn.Close()
			return
		}

		user, err := h.uc.UserFromToken(context.Background(), token)
		if err != nil {
			h.log.Warnw("websocket auth failed", "error", err)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"), closeDeadline())
			_ = conn.Close()
			return
		}

		ch := h.registry.Connect(conn, user.ID)
		defer h.registry.Disconnect(ch, user.ID)

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				h.log.Infow("websocket closed", "user_id", user.ID)
				return
			}
			// pong goes through the channel so it never races a registry push
			// on the single-writer connection
			if msgType == websocket.TextMessage && string(msg) == "ping" {
				if err := ch.WriteText("pong"); err != nil {
					return
				}
			}
		}
	})
}
