package service

import (
	"context"

	"voxpop/internal/models"
	"voxpop/internal/repository"
)

// Vote directions. The direction only selects add-vs-remove; no signed
// magnitude is ever stored.
const (
	VoteDirRemove = 0
	VoteDirAdd    = 1
)

// VoteService enforces the at-most-one-vote-per-post-per-user invariant.
type VoteService struct {
	postRepo repository.PostRepository
	voteRepo repository.VoteRepository
}

type CastVoteInput struct {
	PostID uint
	Dir    int
	UserID uint
}

func NewVoteService(postRepo repository.PostRepository, voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{postRepo: postRepo, voteRepo: voteRepo}
}

// Cast applies a directional vote request against a post.
// dir=1 inserts a vote and conflicts if one exists; dir=0 removes the vote
// and conflicts if none exists. The post must exist either way. The
// existence check races under concurrency, so the votes table's composite
// primary key backstops dir=1: a losing concurrent insert surfaces as the
// same CONFLICT.
func (s *VoteService) Cast(ctx context.Context, in CastVoteInput) error {
	if in.Dir != VoteDirAdd && in.Dir != VoteDirRemove {
		return models.NewValidationError("dir must be 0 or 1")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return err
	}

	existing, err := s.voteRepo.Find(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if in.Dir == VoteDirAdd {
		if existing != nil {
			return models.NewConflictError("User has already voted on this post")
		}
		return s.voteRepo.Create(ctx, &models.Vote{PostID: in.PostID, UserID: in.UserID})
	}

	if existing == nil {
		return models.NewConflictError("No existing vote to remove")
	}
	return s.voteRepo.Delete(ctx, in.PostID, in.UserID)
}
