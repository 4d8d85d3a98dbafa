package main

import (
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/middleware"
	handlers_fiber "github.com/jaykukadiya/Issue-tracker/internal/transport/http/server/handlers-fiber"
	"github.com/jaykukadiya/Issue-tracker/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func registerRoutes(app *fiber.App, h *handlers_fiber.Handler, log *zap.SugaredLogger, uc usecase.InterfaceUsecase) {
	authRequired := middleware.RequireAuth(log, uc)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.PostRegister)
	authGroup.Post("/login", h.PostLogin)
	authGroup.Get("/me", authRequired, h.GetMe)
	authGroup.Post("/refresh", authRequired, h.PostRefresh)

	teams := app.Group("/teams", authRequired)
	teams.Post("/", h.PostTeams)
	teams.Get("/", h.GetTeams)
	teams.Get("/members", h.GetTeammates)
	teams.Post("/:teamId/members", h.PostTeamMembers)
	teams.Get("/:teamId/members", h.GetTeamMembers)

	issues := app.Group("/issues", authRequired)
	issues.Post("/", h.PostIssues)
	issues.Get("/", h.GetIssues)
	issues.Get("/assigned/:userId", h.GetAssignedIssues)
	issues.Get("/:issueId", h.GetIssue)
	issues.Put("/:issueId", h.PutIssue)
	issues.Delete("/:issueId", h.DeleteIssue)

	notifications := app.Group("/notifications", authRequired)
	notifications.Get("/", h.GetNotifications)
	notifications.Get("/unread-count", h.GetUnreadCount)
	notifications.Put("/read-all", h.PutAllNotificationsRead)
	notifications.Put("/:notificationId/read", h.PutNotificationRead)

	aiGroup := app.Group("/ai", authRequired)
	aiGroup.Post("/enhance-description", h.PostEnhanceDescription)

	app.Get("/ws/notifications", handlers_fiber.WebsocketUpgrade(), h.NotificationsSocket())
}
