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

type FilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewFilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.FileRepository {
	return &FilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (f *FilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}

// Create creates a new file record and invalidates the course content cache
func (f *FilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, file *models.File) error {
	if err := f.getDB(tx).WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	cache.InvalidateContentCache(ctx, f.cacheManager, file.CourseID)
	return nil
}

// GetByID retrieves a file record by ID
func (f *FilePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.File, error) {
	var file models.File
	err := f.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &file, nil
}

// Update renames a file; the storage key and placement never change
func (f *FilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, file *models.File) error {
	result := f.getDB(tx).WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", file.ID).
		Update("title", file.Title)
	if result.Error != nil {
		return fmt.Errorf("failed to update file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, file.CourseID)
	return nil
}

// Delete removes a file record and invalidates the course content cache
func (f *FilePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, courseID, id string) error {
	result := f.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.File{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, courseID)
	return nil
}

// GetChildren lists files directly inside a container in stable
// creation order, with caching
func (f *FilePostgreSQL) GetChildren(ctx context.Context, tx *gorm.DB, courseID string, folderID *string) ([]*models.File, error) {
	parent := "root"
	if folderID != nil {
		parent = *folderID
	}
	cacheKey := fmt.Sprintf("course:%s:files:%s", courseID, parent)

	var files []*models.File
	err := f.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &files, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbFiles []*models.File
		query := scopeContainer(f.getDB(tx).WithContext(ctx), "folder_id", courseID, folderID)
		err := query.Order("created_at ASC, id ASC").Find(&dbFiles).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list child files: %w", err)
		}
		return dbFiles, nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// GetNeighbors finds the previous and next sibling of a file within its
// container under the (created_at, id) total order. Missing neighbors
// come back nil, never as an error.
func (f *FilePostgreSQL) GetNeighbors(ctx context.Context, tx *gorm.DB, file *models.File) (*repositories.FileNeighbors, error) {
	db := f.getDB(tx)
	neighbors := &repositories.FileNeighbors{}

	var prev models.File
	err := scopeContainer(db.WithContext(ctx), "folder_id", file.CourseID, file.FolderID).
		Where("created_at < ? OR (created_at = ? AND id < ?)", file.CreatedAt, file.CreatedAt, file.ID).
		Order("created_at DESC, id DESC").
		First(&prev).Error
	if err == nil {
		neighbors.Prev = &prev
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get previous sibling: %w", err)
	}

	var next models.File
	err = scopeContainer(db.WithContext(ctx), "folder_id", file.CourseID, file.FolderID).
		Where("created_at > ? OR (created_at = ? AND id > ?)", file.CreatedAt, file.CreatedAt, file.ID).
		Order("created_at ASC, id ASC").
		First(&next).Error
	if err == nil {
		neighbors.Next = &next
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get next sibling: %w", err)
	}

	return neighbors, nil
}

// ListByCourse returns every file record of a course
func (f *FilePostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.File, error) {
	var files []*models.File
	err := f.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list course files: %w", err)
	}
	return files, nil
}

// ListByFolders returns every file record directly inside the given folders
func (f *FilePostgreSQL) ListByFolders(ctx context.Context, tx *gorm.DB, folderIDs []string) ([]*models.File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}
	var files []*models.File
	err := f.getDB(tx).WithContext(ctx).
		Where("folder_id IN ?", folderIDs).
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list folder files: %w", err)
	}
	return files, nil
}

// DeleteByCourse removes all file records of a course
func (f *FilePostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	err := f.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.File{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete course files: %w", err)
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, courseID)
	return nil
}

// DeleteByFolders removes all file records directly inside the given folders
func (f *FilePostgreSQL) DeleteByFolders(ctx context.Context, tx *gorm.DB, courseID string, folderIDs []string) error {
	if len(folderIDs) == 0 {
		return nil
	}
	err := f.getDB(tx).WithContext(ctx).
		Where("folder_id IN ?", folderIDs).
		Delete(&models.File{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete folder files: %w", err)
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, courseID)
	return nil
}

// ExistsByID checks file existence
func (f *FilePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	var count int64
	err := f.getDB(tx).WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return count > 0, nil
}
