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

type FolderPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewFolderPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.FolderRepository {
	return &FolderPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (f *FolderPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}

// Create creates a new folder and invalidates the course content cache
func (f *FolderPostgreSQL) Create(ctx context.Context, tx *gorm.DB, folder *models.Folder) error {
	if err := f.getDB(tx).WithContext(ctx).Create(folder).Error; err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	cache.InvalidateContentCache(ctx, f.cacheManager, folder.CourseID)
	return nil
}

// GetByID retrieves a folder by ID
func (f *FolderPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Folder, error) {
	var folder models.Folder
	err := f.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return &folder, nil
}

// Update renames a folder; structural fields are immutable after create
func (f *FolderPostgreSQL) Update(ctx context.Context, tx *gorm.DB, folder *models.Folder) error {
	result := f.getDB(tx).WithContext(ctx).
		Model(&models.Folder{}).
		Where("id = ?", folder.ID).
		Update("title", folder.Title)
	if result.Error != nil {
		return fmt.Errorf("failed to update folder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, folder.CourseID)
	return nil
}

// Delete removes folder rows by ID and invalidates the course content
// cache. Callers pass the full descendant set so the whole subtree goes
// in one statement.
func (f *FolderPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, courseID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := f.getDB(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Folder{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete folders: %w", err)
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, courseID)
	return nil
}

// GetChildren lists direct child folders of a container in stable
// creation order, with caching. Ties on created_at break by ID so the
// order is total.
func (f *FolderPostgreSQL) GetChildren(ctx context.Context, tx *gorm.DB, courseID string, parentFolderID *string) ([]*models.Folder, error) {
	parent := "root"
	if parentFolderID != nil {
		parent = *parentFolderID
	}
	cacheKey := fmt.Sprintf("course:%s:folders:%s", courseID, parent)

	var folders []*models.Folder
	err := f.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &folders, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbFolders []*models.Folder
		query := scopeContainer(f.getDB(tx).WithContext(ctx), "parent_folder_id", courseID, parentFolderID)
		err := query.Order("created_at ASC, id ASC").Find(&dbFolders).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list child folders: %w", err)
		}
		return dbFolders, nil
	})
	if err != nil {
		return nil, err
	}

	return folders, nil
}

// GetByCourse lists every folder of a course, used for full tree assembly
func (f *FolderPostgreSQL) GetByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Folder, error) {
	var folders []*models.Folder
	err := f.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC, id ASC").
		Find(&folders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list course folders: %w", err)
	}
	return folders, nil
}

// GetDescendantIDs walks the subtree below a folder breadth first and
// returns every folder ID in it, the given folder included.
func (f *FolderPostgreSQL) GetDescendantIDs(ctx context.Context, tx *gorm.DB, folderID string) ([]string, error) {
	db := f.getDB(tx)

	ids := []string{folderID}
	frontier := []string{folderID}

	for len(frontier) > 0 {
		var children []string
		err := db.WithContext(ctx).
			Model(&models.Folder{}).
			Where("parent_folder_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, fmt.Errorf("failed to walk folder subtree: %w", err)
		}
		ids = append(ids, children...)
		frontier = children
	}

	return ids, nil
}

// DeleteByCourse removes all folders of a course
func (f *FolderPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	err := f.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Folder{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete course folders: %w", err)
	}

	cache.InvalidateContentCache(ctx, f.cacheManager, courseID)
	return nil
}

// ExistsByID checks folder existence
func (f *FolderPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	var count int64
	err := f.getDB(tx).WithContext(ctx).
		Model(&models.Folder{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check folder existence: %w", err)
	}
	return count > 0, nil
}
