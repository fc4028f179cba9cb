package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/models"
)

// CourseRepository interface for course-specific operations
type CourseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	ListSummaries(ctx context.Context, tx *gorm.DB) ([]*CourseSummary, error)
	GetStats(ctx context.Context, tx *gorm.DB, id string) (*CourseStats, error)

	// Validation
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error)
}

// FolderRepository interface for folder operations within a course tree
type FolderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, folder *models.Folder) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Folder, error)
	Update(ctx context.Context, tx *gorm.DB, folder *models.Folder) error
	Delete(ctx context.Context, tx *gorm.DB, courseID string, ids []string) error

	// Tree operations
	GetChildren(ctx context.Context, tx *gorm.DB, courseID string, parentFolderID *string) ([]*models.Folder, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Folder, error)
	GetDescendantIDs(ctx context.Context, tx *gorm.DB, folderID string) ([]string, error)
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error

	// Validation
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

// FileRepository interface for file record operations
type FileRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, file *models.File) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.File, error)
	Update(ctx context.Context, tx *gorm.DB, file *models.File) error
	Delete(ctx context.Context, tx *gorm.DB, courseID, id string) error

	// Tree operations
	GetChildren(ctx context.Context, tx *gorm.DB, courseID string, folderID *string) ([]*models.File, error)
	GetNeighbors(ctx context.Context, tx *gorm.DB, file *models.File) (*FileNeighbors, error)

	// Bulk listings used by cascading deletes: callers need both the
	// record IDs (read-mark cleanup) and the storage keys (object
	// cleanup)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.File, error)
	ListByFolders(ctx context.Context, tx *gorm.DB, folderIDs []string) ([]*models.File, error)

	// Bulk deletes used by cascading course/folder removal
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
	DeleteByFolders(ctx context.Context, tx *gorm.DB, courseID string, folderIDs []string) error

	// Validation
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}
