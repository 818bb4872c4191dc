package service

import (
	"context"
	"errors"
	"log/slog"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// UserService exposes signup and listing.
type UserService interface {
	CreateUser(ctx context.Context, user model.User) (*model.InsertResult, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewUserService builds a UserService over repo.
func NewUserService(repo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{repo: repo, logger: logger.With("component", "user_service")}
}

// CreateUser stores a new user unless one with the same email exists.
// Records without an email skip the lookup; the store's unique index
// still guards concurrent signups with the same email.
func (s *userService) CreateUser(ctx context.Context, user model.User) (*model.InsertResult, error) {
	user.ID = ""
	if user.Email != "" {
		existing, err := s.repo.FindByEmail(ctx, user.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, storeError("find user by email", err)
		}
		if existing != nil {
			return nil, apperrors.ErrUserAlreadyExists
		}
	}

	id, err := s.repo.Create(ctx, &user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, storeError("create user", err)
	}
	s.logger.Info("user created", "user_id", id)
	return &model.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}
