package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/course-content-service/internal/cache"
	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

// AddCourses inserts membership rows for the given courses. Rows the
// subject already holds are skipped at the database level so retries
// and overlapping syncs stay idempotent. The cache is left alone; the
// caller invalidates after its transaction commits.
func (e *EnrollmentPostgreSQL) AddCourses(ctx context.Context, tx *gorm.DB, userID string, courseIDs []string) error {
	if len(courseIDs) == 0 {
		return nil
	}

	rows := make([]models.Enrollment, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		rows = append(rows, models.Enrollment{UserID: userID, CourseID: courseID})
	}

	err := e.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to add enrollments: %w", err)
	}
	return nil
}

// RemoveCourses deletes membership rows for the given courses. Absent
// rows are not an error. Cache invalidation is the caller's job, after
// commit.
func (e *EnrollmentPostgreSQL) RemoveCourses(ctx context.Context, tx *gorm.DB, userID string, courseIDs []string) error {
	if len(courseIDs) == 0 {
		return nil
	}

	err := e.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove enrollments: %w", err)
	}
	return nil
}

// InvalidateUsers drops the cached enrollment listings of the given
// users
func (e *EnrollmentPostgreSQL) InvalidateUsers(ctx context.Context, userIDs []string) {
	cache.InvalidateEnrollmentCache(ctx, e.cacheManager, userIDs)
}

// ListByUser returns a user's enrollments with course metadata, newest
// enrollment first, with caching
func (e *EnrollmentPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error) {
	cacheKey := fmt.Sprintf("user:%s", userID)

	var enrollments []*models.Enrollment
	err := e.cacheManager.Enrollment.CacheOrExecute(ctx, cacheKey, &enrollments, cache.EnrollmentCacheConfig.TTL, func() (interface{}, error) {
		var dbEnrollments []*models.Enrollment
		err := e.getDB(tx).WithContext(ctx).
			Preload("Course").
			Where("user_id = ?", userID).
			Order("enrolled_at DESC").
			Find(&dbEnrollments).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list enrollments: %w", err)
		}
		return dbEnrollments, nil
	})
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ListByCourse returns every enrollment row of a course in roster
// order, oldest enrollment first
func (e *EnrollmentPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := e.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC, user_id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list course enrollments: %w", err)
	}
	return enrollments, nil
}

// ListCourseIDsByUser returns every course ID the subject is enrolled
// in, without the course preload
func (e *EnrollmentPostgreSQL) ListCourseIDsByUser(ctx context.Context, tx *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}
	return ids, nil
}

// Exists reports whether a user is enrolled in a course
func (e *EnrollmentPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, userID, courseID string) (bool, error) {
	var count int64
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

// DeleteByCourse removes all enrollments of a course
func (e *EnrollmentPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	err := e.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete course enrollments: %w", err)
	}
	return nil
}
