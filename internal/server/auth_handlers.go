package server

import (
	"errors"

	"voxpop/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /login. The body is form-encoded OAuth2-password style:
// the "username" field carries the email. Unknown email and wrong password
// are indistinguishable to the caller: both yield the same 403.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeAuthInvalid {
			// Login failures are 403 for wire compatibility
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}
