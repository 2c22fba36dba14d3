package server

import (
	"voxpop/internal/models"
	"voxpop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /vote with body {post_id, dir}. dir=1 adds a vote,
// dir=0 retracts one. A duplicate add or a retract with no vote present
// is a 409.
func (s *Server) CastVote(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		PostID uint `json:"post_id"`
		Dir    *int `json:"dir"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 || req.Dir == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id and dir are required"))
	}

	err := s.voteService.Cast(c.Context(), service.CastVoteInput{
		PostID: req.PostID,
		Dir:    *req.Dir,
		UserID: userID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	message := "Successfully added vote"
	if *req.Dir == service.VoteDirRemove {
		message = "Successfully removed vote"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}
