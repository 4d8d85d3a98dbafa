package middleware

import (
	"strings"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"
	"github.com/jaykukadiya/Issue-tracker/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserLocalKey is the fiber locals key the authenticated user is stored under.
const UserLocalKey = "user"

// RequireAuth resolves the Authorization bearer token to an active user and
// stores it in the request locals. Requests without a valid token get 401.
func RequireAuth(log *zap.SugaredLogger, auth usecase.AuthUsecaseInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, "missing bearer token")
		}

		user, err := auth.UserFromToken(c.UserContext(), token)
		if err != nil {
			log.Warnw("token rejected", "path", c.OriginalURL(), "error", err)
			return unauthorized(c, "could not validate credentials")
		}

		c.Locals(UserLocalKey, *user)
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by RequireAuth.
func UserFromCtx(c *fiber.Ctx) (entities.User, bool) {
	user, ok := c.Locals(UserLocalKey).(entities.User)
	return user, ok
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: dto.ErrorBody{Code: "UNAUTHORIZED", Message: msg},
	})
}
