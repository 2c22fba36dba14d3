package server

import (
	"voxpop/internal/models"
	"voxpop/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

// GetPosts handles GET /post with limit, skip and search query parameters.
// Search matches a case-insensitive substring of the title.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Search: c.Query("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /post
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /post/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT /post/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:    userID,
		PostID:    postID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /post/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), postID, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
