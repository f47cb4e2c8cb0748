package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tasktracker/internal/cache"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// UserService exposes user domain operations.
type UserService interface {
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

// CreateUser creates a user after checking email uniqueness. The check is a
// read-before-write, so two concurrent creations with the same email can race;
// the unique index then rejects the loser with a driver error rather than
// ErrEmailExists.
func (s *userService) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailExists
	}

	user := &model.User{Name: name, Email: email}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID.String()))
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}
