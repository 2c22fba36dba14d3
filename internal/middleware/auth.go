package middleware

import (
	"context"
	"errors"
	"strings"

	"voxpop/internal/auth"
	"voxpop/internal/models"
	"voxpop/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns a middleware that enforces bearer authentication.
// The token must verify and its user must still exist; a token whose user
// was deleted after issuance is rejected, never forwarded as a nil identity.
// On success the resolved user is stored in c.Locals("currentUser") and the
// user ID in c.Locals("userID") and the request context for logging.
func AuthRequired(tokens *auth.TokenService, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithAppError(c,
				models.NewAuthRequiredError("Authorization header required"))
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithAppError(c,
				models.NewAuthRequiredError("Invalid authorization header format"))
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			return models.RespondWithAppError(c, err)
		}

		user, err := users.GetByID(c.Context(), userID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				// Token outlived its user
				return models.RespondWithAppError(c,
					models.NewAuthInvalidError("Could not validate credentials"))
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		c.Locals("currentUser", user)
		c.Locals("userID", user.ID)
		ctx := context.WithValue(c.UserContext(), UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
