package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
)

// ReadMarkPostgreSQL is deliberately uncached: the read set is always
// queried per user per request and must reflect marks immediately.
type ReadMarkPostgreSQL struct {
	db *gorm.DB
}

func NewReadMarkPostgreSQL(db *gorm.DB) repositories.ReadMarkRepository {
	return &ReadMarkPostgreSQL{db: db}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (r *ReadMarkPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Mark records that the user has read the file. Marking twice is a no-op.
func (r *ReadMarkPostgreSQL) Mark(ctx context.Context, tx *gorm.DB, userID, fileID string) error {
	mark := models.ReadMark{UserID: userID, FileID: fileID}
	err := r.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mark).Error
	if err != nil {
		return fmt.Errorf("failed to mark file read: %w", err)
	}
	return nil
}

// Unmark removes the read mark. Unmarking an unread file is a no-op.
func (r *ReadMarkPostgreSQL) Unmark(ctx context.Context, tx *gorm.DB, userID, fileID string) error {
	err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND file_id = ?", userID, fileID).
		Delete(&models.ReadMark{}).Error
	if err != nil {
		return fmt.Errorf("failed to mark file unread: %w", err)
	}
	return nil
}

// GetReadFileIDs returns the subset of fileIDs this user has read in a
// single IN query
func (r *ReadMarkPostgreSQL) GetReadFileIDs(ctx context.Context, tx *gorm.DB, userID string, fileIDs []string) ([]string, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}

	var ids []string
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.ReadMark{}).
		Where("user_id = ? AND file_id IN ?", userID, fileIDs).
		Pluck("file_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get read file IDs: %w", err)
	}
	return ids, nil
}

// DeleteByFiles drops read marks for files that no longer exist
func (r *ReadMarkPostgreSQL) DeleteByFiles(ctx context.Context, tx *gorm.DB, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	err := r.getDB(tx).WithContext(ctx).
		Where("file_id IN ?", fileIDs).
		Delete(&models.ReadMark{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete read marks: %w", err)
	}
	return nil
}
