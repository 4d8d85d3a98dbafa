package handlers_fiber

import (
	"net/http"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/mapper"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// PostRegister creates a new account.
func (h *Handler) PostRegister(c *fiber.Ctx) error {
	var body dto.RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	user, err := h.uc.Register(c.UserContext(), entities.User{
		Username: body.Username,
		Email:    body.Email,
		FullName: body.FullName,
	}, body.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(mapper.ToDTOUser(*user))
}

// PostLogin verifies credentials and returns a bearer token. Accepts both JSON
// and form-encoded bodies.
func (h *Handler) PostLogin(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	token, err := h.uc.Login(c.UserContext(), body.Username, body.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// GetMe returns the authenticated account.
func (h *Handler) GetMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOUser(user))
}

// PostRefresh mints a fresh token for the authenticated account.
func (h *Handler) PostRefresh(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	token, err := h.uc.IssueToken(user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
