package repository

import (
	"context"
	"errors"

	"voxpop/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for votes.
// Find returns (nil, nil) on a miss; the vote engine branches on presence.
type VoteRepository interface {
	Find(ctx context.Context, postID, userID uint) (*models.Vote, error)
	Create(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, postID, userID uint) error
	CountByPostID(ctx context.Context, postID uint) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Find(ctx context.Context, postID, userID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

// Create inserts a vote row. Two concurrent inserts for the same
// (post, user) pair both pass the engine's existence check; the composite
// primary key makes the second insert fail here, which is reported as the
// same conflict as an observed duplicate.
func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User has already voted on this post")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *voteRepository) Delete(ctx context.Context, postID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Vote{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *voteRepository) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
