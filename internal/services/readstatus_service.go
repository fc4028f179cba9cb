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

type readStatusService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReadStatusService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ReadStatusService {
	return &readStatusService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// MarkRead records that the caller has read a file. Marking twice is a
// no-op.
func (s *readStatusService) MarkRead(ctx context.Context, fileID string, actor Actor) error {
	file, err := s.loadAccessibleFile(ctx, fileID, actor)
	if err != nil {
		return err
	}
	if err := s.repo.ReadMark().Mark(ctx, nil, actor.ID, file.ID); err != nil {
		return fmt.Errorf("failed to mark file read: %w", err)
	}
	return nil
}

// MarkUnread clears the caller's read mark. Clearing an absent mark is
// a no-op.
func (s *readStatusService) MarkUnread(ctx context.Context, fileID string, actor Actor) error {
	file, err := s.loadAccessibleFile(ctx, fileID, actor)
	if err != nil {
		return err
	}
	if err := s.repo.ReadMark().Unmark(ctx, nil, actor.ID, file.ID); err != nil {
		return fmt.Errorf("failed to mark file unread: %w", err)
	}
	return nil
}

// GetReadStatus answers a batch of file IDs with the subset the caller
// has marked read. Unknown IDs simply come back absent.
func (s *readStatusService) GetReadStatus(ctx context.Context, req *ReadStatusBatchRequest, actor Actor) (*ReadStatusResponse, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	readIDs, err := s.repo.ReadMark().GetReadFileIDs(ctx, nil, actor.ID, req.FileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load read status: %w", err)
	}
	if readIDs == nil {
		readIDs = []string{}
	}

	return &ReadStatusResponse{ReadFileIDs: readIDs}, nil
}

// loadAccessibleFile resolves the file and enforces course visibility
// for the caller
func (s *readStatusService) loadAccessibleFile(ctx context.Context, fileID string, actor Actor) (*models.File, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}

	file, err := s.repo.File().GetByID(ctx, nil, fileID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		enrolled, err := s.repo.Enrollment().Exists(ctx, nil, actor.ID, file.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, NewPermissionError(actor.ID, file.CourseID, "course", "read", "not enrolled")
		}
	}
	return file, nil
}
