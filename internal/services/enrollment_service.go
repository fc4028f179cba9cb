package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Sync reconciles the caller's own course set. Both lists are applied
// in one transaction; re-adding an enrolled course and removing an
// absent one are no-ops, so a retried request converges to the same
// state. The caller owns the diff against prior state.
func (s *enrollmentService) Sync(ctx context.Context, req *SyncEnrollmentsRequest, actor Actor) (*SyncEnrollmentsResult, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}

	s.logger.Info("Syncing enrollments", "actor_id", actor.ID,
		"to_add", len(req.ToAdd), "to_remove", len(req.ToRemove))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	for _, courseID := range req.ToAdd {
		exists, err := s.repo.Course().ExistsByID(ctx, nil, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check course: %w", err)
		}
		if !exists {
			return nil, ErrCourseNotFound
		}
	}

	result := &SyncEnrollmentsResult{}
	err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		current, err := r.Enrollment().ListCourseIDsByUser(ctx, nil, actor.ID)
		if err != nil {
			return err
		}
		enrolled := make(map[string]bool, len(current))
		for _, id := range current {
			enrolled[id] = true
		}

		for _, id := range req.ToAdd {
			if !enrolled[id] {
				result.Added++
				enrolled[id] = true
			}
		}
		for _, id := range req.ToRemove {
			if enrolled[id] {
				result.Removed++
				enrolled[id] = false
			}
		}

		if err := r.Enrollment().AddCourses(ctx, nil, actor.ID, req.ToAdd); err != nil {
			return err
		}
		return r.Enrollment().RemoveCourses(ctx, nil, actor.ID, req.ToRemove)
	})
	if err != nil {
		return nil, err
	}

	// Only after commit, so a concurrent read cannot refill the cache
	// with the pre-sync rows
	s.repo.Enrollment().InvalidateUsers(ctx, []string{actor.ID})

	s.logger.Info("Enrollments synced", "actor_id", actor.ID, "added", result.Added, "removed", result.Removed)
	return result, nil
}

func (s *enrollmentService) ListMine(ctx context.Context, actor Actor) ([]*models.Enrollment, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.Enrollment().ListByUser(ctx, nil, actor.ID)
}

// Roster lists the members of a course, enriched with the local profile
// where the lifecycle consumer has already materialized one.
func (s *enrollmentService) Roster(ctx context.Context, courseID string, actor Actor) ([]*RosterEntry, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, courseID, "enrollment", "list", "admin role required")
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}

	entries := make([]*RosterEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := &RosterEntry{UserID: enrollment.UserID, EnrolledAt: enrollment.EnrolledAt}
		profile, err := s.repo.User().GetByID(ctx, nil, enrollment.UserID)
		if err == nil {
			entry.Profile = profile
		} else if !repositories.IsNotFoundError(err) {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
