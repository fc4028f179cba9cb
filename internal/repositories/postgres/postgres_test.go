package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/course-content-service/internal/models"
)

// setupTestDB opens a per-test in-memory database with the full schema.
// The database name carries the test name so parallel tests never share
// state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Course{},
		&models.Folder{},
		&models.File{},
		&models.Enrollment{},
		&models.ReadMark{},
		&models.User{},
	)
	require.NoError(t, err)

	return db
}

// setupTestRedis backs the repository cache with an in-process server
// so cache effects are observable in tests.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return client
}

func createTestCourse(t *testing.T, db *gorm.DB, id, title, code string) *models.Course {
	t.Helper()

	course := &models.Course{ID: id, Title: title, Code: code}
	require.NoError(t, db.Create(course).Error)
	return course
}
