package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
)

func TestCourseCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	course := &models.Course{ID: "c-1", Title: "Operating Systems", Code: "CS301"}
	require.NoError(t, repo.Create(ctx, nil, course))

	got, err := repo.GetByID(ctx, nil, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", got.Title)
	assert.Equal(t, "CS301", got.Code)
}

func TestCourseGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)

	_, err := repo.GetByID(context.Background(), nil, "missing")
	require.Error(t, err)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestCourseUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Old Title", "CS101")

	err := repo.Update(ctx, nil, &models.Course{ID: "c-1", Title: "New Title", Code: "CS102"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, nil, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, "CS102", got.Code)
}

func TestCourseUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)

	err := repo.Update(context.Background(), nil, &models.Course{ID: "missing", Title: "X"})
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestCourseDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Doomed", "CS999")

	require.NoError(t, repo.Delete(ctx, nil, "c-1"))

	_, err := repo.GetByID(ctx, nil, "c-1")
	assert.True(t, repositories.IsNotFoundError(err))

	// Deleting again reports not found
	err = repo.Delete(ctx, nil, "c-1")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestCourseListSummariesOrderedByTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Zoology", "BIO200")
	createTestCourse(t, db, "c-2", "Algorithms", "CS201")
	createTestCourse(t, db, "c-3", "Microeconomics", "ECON101")

	summaries, err := repo.ListSummaries(ctx, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Algorithms", summaries[0].Title)
	assert.Equal(t, "Microeconomics", summaries[1].Title)
	assert.Equal(t, "Zoology", summaries[2].Title)
	assert.Equal(t, "CS201", summaries[0].Code)
}

func TestCourseListWithQuery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Databases", "CS305")
	createTestCourse(t, db, "c-2", "Networks", "CS306")

	courses, total, err := repo.List(ctx, nil, repositories.CourseFilters{Query: "Data"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.Equal(t, "c-1", courses[0].ID)
}

func TestCourseExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Here", "CS100")

	exists, err := repo.ExistsByID(ctx, nil, "c-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(ctx, nil, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	taken, err := repo.ExistsByCode(ctx, nil, "CS100")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCourseGetStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCoursePostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Stats", "CS400")
	require.NoError(t, db.Create(&models.Folder{ID: "d-1", Title: "Week 1", CourseID: "c-1"}).Error)
	require.NoError(t, db.Create(&models.File{ID: "f-1", Title: "Notes", CourseID: "c-1", FilePath: "k1"}).Error)
	require.NoError(t, db.Create(&models.File{ID: "f-2", Title: "Slides", CourseID: "c-1", FilePath: "k2"}).Error)
	require.NoError(t, db.Create(&models.Enrollment{UserID: "u-1", CourseID: "c-1"}).Error)

	stats, err := repo.GetStats(ctx, nil, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FolderCount)
	assert.Equal(t, int64(2), stats.FileCount)
	assert.Equal(t, int64(1), stats.EnrollmentCount)
	assert.False(t, stats.LastUploadAt.IsZero())
}
