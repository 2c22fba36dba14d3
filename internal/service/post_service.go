package service

import (
	"context"

	"voxpop/internal/models"
	"voxpop/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID    uint
	Title     string
	Content   string
	Published *bool
}

type ListPostsInput struct {
	Search string
	Limit  int
	Offset int
}

type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Title     string
	Content   string
	Published *bool
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

func validatePostFields(title, content string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Published: published,
		UserID:    in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	// Reload so the response carries the owner and vote count
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Search, in.Limit, in.Offset)
}

// UpdatePost replaces a post's title, content and published flag.
// Existence is checked before ownership, unconditionally: a missing post is
// NOT_FOUND for everyone, and only an existing post owned by someone else
// is FORBIDDEN.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Not authorized to perform this action")
	}

	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.Published = true
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

// DeletePost removes a post after the same existence-then-ownership check
// as UpdatePost.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("Not authorized to perform this action")
	}
	return s.postRepo.Delete(ctx, postID)
}
