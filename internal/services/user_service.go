package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
)

type userService struct {
	repo      repositories.Repository
	directory repositories.UserDirectory
	db        *gorm.DB
	logger    *slog.Logger
}

func NewUserService(repo repositories.Repository, directory repositories.UserDirectory, db *gorm.DB, logger *slog.Logger) UserService {
	return &userService{
		repo:      repo,
		directory: directory,
		db:        db,
		logger:    logger,
	}
}

// GetProfile returns the caller's own profile. The local row wins; the
// identity directory covers users whose lifecycle event has not landed
// yet. Role always comes from the actor, never from storage.
func (s *userService) GetProfile(ctx context.Context, actor Actor) (*models.User, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.User().GetByID(ctx, nil, actor.ID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}
		if s.directory == nil {
			return nil, ErrUserNotFound
		}
		user, err = s.directory.GetByID(ctx, actor.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	user.Role = actor.Role
	return user, nil
}

// ProvisionUser materializes a local profile from an identity lifecycle
// event. Redelivered events land on the same row.
func (s *userService) ProvisionUser(ctx context.Context, evt *UserCreatedEvent) error {
	if evt.ID == "" {
		return NewBusinessRuleError("user_event_id", "lifecycle event carries no user ID")
	}

	user := &models.User{
		ID:       evt.ID,
		FullName: evt.FullName,
		Email:    evt.Email,
	}
	if evt.AvatarURL != "" {
		user.AvatarURL = &evt.AvatarURL
	}

	if err := s.repo.User().Upsert(ctx, nil, user); err != nil {
		return fmt.Errorf("failed to provision user: %w", err)
	}

	s.logger.Info("User provisioned", "user_id", evt.ID)
	return nil
}

// ListUsers searches the identity directory; this backs the member
// picker in enrollment management
func (s *userService) ListUsers(ctx context.Context, filters repositories.UserFilters, actor Actor) ([]*models.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, NewPermissionError(actor.ID, "", "user", "list", "admin role required")
	}
	if s.directory == nil {
		return nil, 0, ErrStoreUnavailable
	}
	return s.directory.List(ctx, filters)
}
