package handlers_fiber

import (
	"net/http"
	"strings"

	"github.com/jaykukadiya/Issue-tracker/internal/mapper"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// PostTeams creates a team; the caller becomes its admin member.
func (h *Handler) PostTeams(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.CreateTeamRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(body.Name) == "" {
		return badRequest(c, "name is required")
	}

	team, err := h.uc.CreateTeam(c.UserContext(), body.Name, body.Description, user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToDTOTeam(*team))
}

// GetTeams lists the caller's teams with their role in each.
func (h *Handler) GetTeams(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	teams, err := h.uc.ListUserTeams(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOTeamList(teams))
}

// PostTeamMembers adds a user to a team by username.
func (h *Handler) PostTeamMembers(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.AddTeamMemberRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	member, err := h.uc.AddTeamMember(c.UserContext(), c.Params("teamId"), body.Username, body.Role, user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToDTOTeamMember(*member))
}

// GetTeamMembers returns the user details of a team's active members.
func (h *Handler) GetTeamMembers(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	members, err := h.uc.ListTeamMembers(c.UserContext(), c.Params("teamId"), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOUserList(members))
}

// GetTeammates returns the distinct users across every team the caller belongs to.
func (h *Handler) GetTeammates(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	teammates, err := h.uc.ListTeammates(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOUserList(teammates))
}
