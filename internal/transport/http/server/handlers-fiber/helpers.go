package handlers_fiber

import (
	"errors"
	"net/http"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	codeInvalid      = "INVALID_ARGUMENT"
	codeUnauthorized = "UNAUTHORIZED"
	codeForbidden    = "FORBIDDEN"
	codeNotFound     = "NOT_FOUND"
	codeConflict     = "CONFLICT"
	codeInternal     = "INTERNAL"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := codeInternal
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = codeInvalid
		msg = err.Error()
	case errors.Is(err, entities.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = codeUnauthorized
		msg = err.Error()
	case errors.Is(err, entities.ErrForbidden):
		status = http.StatusForbidden
		code = codeForbidden
		msg = err.Error()
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrTeamNotFound),
		errors.Is(err, entities.ErrIssueNotFound),
		errors.Is(err, entities.ErrNotificationNotFound):
		status = http.StatusNotFound
		code = codeNotFound
		msg = err.Error()
	case errors.Is(err, entities.ErrUserExists):
		status = http.StatusBadRequest
		code = codeConflict
		msg = err.Error()
	case errors.Is(err, entities.ErrAlreadyMember):
		status = http.StatusConflict
		code = codeConflict
		msg = err.Error()
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code, msg string) dto.ErrorResponse {
	return dto.ErrorResponse{Error: dto.ErrorBody{Code: code, Message: msg}}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse(codeInvalid, msg))
}

// currentUser fetches the user the auth middleware resolved for this request.
func currentUser(c *fiber.Ctx) (entities.User, error) {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return entities.User{}, entities.ErrUnauthorized
	}
	return user, nil
}
