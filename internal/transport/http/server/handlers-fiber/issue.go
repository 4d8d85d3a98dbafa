package handlers_fiber

import (
	"net/http"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/mapper"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// PostIssues creates an issue inside one of the caller's accessible teams.
func (h *Handler) PostIssues(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.CreateIssueRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	issue, err := h.uc.CreateIssue(c.UserContext(), mapper.FromDTOCreateIssue(body), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToDTOIssue(*issue))
}

// GetIssues lists issues from the caller's accessible teams with optional
// filters. A team_id outside the accessible set yields an empty page.
func (h *Handler) GetIssues(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	filter := entities.IssueFilter{
		Search:    c.Query("search"),
		CreatedBy: c.Query("created_by"),
		Page:      c.QueryInt("page", 1),
		Size:      c.QueryInt("size", 10),
	}
	if s := c.Query("status"); s != "" {
		status := entities.IssueStatus(s)
		filter.Status = &status
	}
	if p := c.Query("priority"); p != "" {
		priority := entities.IssuePriority(p)
		filter.Priority = &priority
	}

	issues, total, err := h.uc.ListIssues(c.UserContext(), user, filter, c.Query("team_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOIssueList(issues, total, filter.Page, filter.Size))
}

// GetIssue returns one issue if the caller may see it.
func (h *Handler) GetIssue(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	issue, err := h.uc.GetIssue(c.UserContext(), c.Params("issueId"), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOIssue(*issue))
}

// PutIssue applies a partial update; only the creator or assignee may update.
func (h *Handler) PutIssue(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	var body dto.UpdateIssueRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	issue, err := h.uc.UpdateIssue(c.UserContext(), c.Params("issueId"), mapper.FromDTOUpdateIssue(body), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOIssue(*issue))
}

// DeleteIssue removes an issue; only its creator may do so.
func (h *Handler) DeleteIssue(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteIssue(c.UserContext(), c.Params("issueId"), user); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.MessageResponse{Message: "issue deleted"})
}

// GetAssignedIssues lists the issues assigned to a user.
func (h *Handler) GetAssignedIssues(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return writeError(c, err)
	}

	issues, err := h.uc.ListAssignedIssues(c.UserContext(), c.Params("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToDTOIssueList(issues, int64(len(issues)), 1, len(issues)))
}
