package handlers_fiber

import (
	"errors"
	"net/http"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// PostEnhanceDescription rewrites a raw issue description via the AI backend.
// Upstream failures surface as a bad gateway and never touch issue state.
func (h *Handler) PostEnhanceDescription(c *fiber.Ctx) error {
	var body dto.EnhanceDescriptionRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	enhanced, err := h.ai.EnhanceDescription(c.UserContext(), body.RawDescription)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidArgument) {
			return writeError(c, err)
		}
		return c.Status(http.StatusBadGateway).JSON(errorResponse("UPSTREAM", err.Error()))
	}
	return c.Status(http.StatusOK).JSON(dto.EnhanceDescriptionResponse{EnhancedDescription: enhanced})
}
