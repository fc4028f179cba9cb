package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/cache"
	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// Create creates a new course and invalidates listing caches
func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := c.getDB(tx).WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

// GetByID retrieves a course by ID with caching
func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := c.getDB(tx).WithContext(ctx).
			Where("id = ?", id).
			First(&dbCourse).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// Update updates course metadata and invalidates cache
func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	result := c.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"title": course.Title,
			"code":  course.Code,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

// Delete removes the course row only; descendants are removed by the
// service inside the same transaction.
func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	result := c.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Course{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, id)
	return nil
}

// List retrieves courses with filters, ordered by title
func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := c.getDB(tx)

	query := db.WithContext(ctx).Model(&models.Course{})
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("title LIKE ? OR code LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = applySortAndPagination(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset,
		map[string]bool{"title": true, "code": true, "created_at": true}, "title")

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

// ListSummaries returns the lightweight id/title/code projection used
// by pickers, alphabetical by title, with caching
func (c *CoursePostgreSQL) ListSummaries(ctx context.Context, tx *gorm.DB) ([]*repositories.CourseSummary, error) {
	var summaries []*repositories.CourseSummary

	err := c.cacheManager.Course.CacheOrExecute(ctx, "list:summaries", &summaries, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbSummaries []*repositories.CourseSummary
		err := c.getDB(tx).WithContext(ctx).
			Model(&models.Course{}).
			Select("id, title, code").
			Order("title ASC").
			Scan(&dbSummaries).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list course summaries: %w", err)
		}
		return dbSummaries, nil
	})
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// GetStats returns content and membership counts for a course
func (c *CoursePostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, id string) (*repositories.CourseStats, error) {
	db := c.getDB(tx)
	stats := &repositories.CourseStats{}

	if err := db.WithContext(ctx).Model(&models.Folder{}).
		Where("course_id = ?", id).
		Count(&stats.FolderCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count folders: %w", err)
	}

	if err := db.WithContext(ctx).Model(&models.File{}).
		Where("course_id = ?", id).
		Count(&stats.FileCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	if err := db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", id).
		Count(&stats.EnrollmentCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var lastFile models.File
	err := db.WithContext(ctx).
		Where("course_id = ?", id).
		Order("created_at DESC").
		First(&lastFile).Error
	if err == nil {
		stats.LastUploadAt = lastFile.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get last upload: %w", err)
	}

	return stats, nil
}

// ExistsByID checks course existence with a short-lived cache
func (c *CoursePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	cacheKey := fmt.Sprintf("course:%s", id)
	if cached, err := c.cacheManager.Exists.GetString(ctx, cacheKey); err == nil {
		return cached == "true", nil
	}

	var count int64
	err := c.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}

	exists := count > 0
	_ = c.cacheManager.Exists.SetString(ctx, cacheKey, fmt.Sprintf("%t", exists), cache.ExistsCacheConfig.TTL)

	return exists, nil
}

// ExistsByCode checks whether a course code is already taken
func (c *CoursePostgreSQL) ExistsByCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	var count int64
	err := c.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return count > 0, nil
}
