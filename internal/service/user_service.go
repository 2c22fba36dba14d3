// Package service contains the application's business logic.
package service

import (
	"context"
	"net/mail"

	"voxpop/internal/auth"
	"voxpop/internal/models"
	"voxpop/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Email    string
	Password string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new account with a bcrypt-hashed password.
// A duplicate email surfaces as CONFLICT from the repository.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Authenticate resolves the credentials to a user. An unknown email and a
// wrong password produce the identical error so a caller cannot probe which
// accounts exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.Password) {
		return nil, models.NewAuthInvalidError("Invalid credentials")
	}
	return user, nil
}
