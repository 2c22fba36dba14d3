package server

import (
	"time"

	"voxpop/internal/models"
	"voxpop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// userOut is the public view of a user; the password digest never leaves
// the server.
type userOut struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toUserOut(u *models.User) userOut {
	return userOut{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// CreateUser handles POST /users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUserOut(user))
}

// GetUser handles GET /users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(toUserOut(user))
}
