package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/models"
)

// EnrollmentRepository interface for membership rows. Rows are inserted
// and deleted, never updated.
type EnrollmentRepository interface {
	// Differential sync primitives, applied for one subject at a time.
	// Neither touches the cache; callers invalidate after the enclosing
	// transaction commits so a concurrent read cannot repopulate stale
	// rows in between.
	AddCourses(ctx context.Context, tx *gorm.DB, userID string, courseIDs []string) error
	RemoveCourses(ctx context.Context, tx *gorm.DB, userID string, courseIDs []string) error

	// InvalidateUsers drops the cached enrollment listings of the given
	// users, best effort
	InvalidateUsers(ctx context.Context, userIDs []string)

	// Query operations
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error)
	ListCourseIDsByUser(ctx context.Context, tx *gorm.DB, userID string) ([]string, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, courseID string) (bool, error)

	// Cascade cleanup
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}

// ReadMarkRepository interface for the per-user read overlay. A mark is
// a bare (user, file) pair; both mutations are idempotent.
type ReadMarkRepository interface {
	Mark(ctx context.Context, tx *gorm.DB, userID, fileID string) error
	Unmark(ctx context.Context, tx *gorm.DB, userID, fileID string) error

	// GetReadFileIDs returns the subset of fileIDs the user has marked
	// read, in one batch query.
	GetReadFileIDs(ctx context.Context, tx *gorm.DB, userID string, fileIDs []string) ([]string, error)

	// Cascade cleanup when files disappear
	DeleteByFiles(ctx context.Context, tx *gorm.DB, fileIDs []string) error
}
