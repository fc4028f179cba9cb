package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentAddCoursesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentPostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "First Course", "CS1")
	createTestCourse(t, db, "c-2", "Second Course", "CS2")
	createTestCourse(t, db, "c-3", "Third Course", "CS3")

	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-1", "c-2"}))
	// Re-adding an enrolled course must not fail or duplicate
	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-2", "c-3"}))

	ids, err := repo.ListCourseIDsByUser(ctx, nil, "u-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c-1", "c-2", "c-3"}, ids)
}

func TestEnrollmentRemoveCoursesTolerant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentPostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "First Course", "CS1")
	createTestCourse(t, db, "c-2", "Second Course", "CS2")
	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-1", "c-2"}))

	// Removing a mix of enrolled and absent courses succeeds
	require.NoError(t, repo.RemoveCourses(ctx, nil, "u-1", []string{"c-2", "c-ghost"}))

	ids, err := repo.ListCourseIDsByUser(ctx, nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1"}, ids)
}

func TestEnrollmentListByUserNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentPostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "First Course", "CS1")
	createTestCourse(t, db, "c-2", "Second Course", "CS2")

	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-1"}))
	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-2"}))

	// Force distinct enrollment times so ordering is deterministic
	require.NoError(t, db.Exec("UPDATE course_enrollments SET enrolled_at = '2026-01-01 00:00:00' WHERE course_id = 'c-1'").Error)
	require.NoError(t, db.Exec("UPDATE course_enrollments SET enrolled_at = '2026-02-01 00:00:00' WHERE course_id = 'c-2'").Error)

	enrollments, err := repo.ListByUser(ctx, nil, "u-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "c-2", enrollments[0].CourseID)
	assert.Equal(t, "Second Course", enrollments[0].Course.Title)
	assert.Equal(t, "c-1", enrollments[1].CourseID)
}

func TestEnrollmentListByCourse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentPostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "First Course", "CS1")
	require.NoError(t, repo.AddCourses(ctx, nil, "u-2", []string{"c-1"}))
	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-1"}))

	enrollments, err := repo.ListByCourse(ctx, nil, "c-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
}

func TestEnrollmentExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentPostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Course", "CS1")
	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-1"}))

	enrolled, err := repo.Exists(ctx, nil, "u-1", "c-1")
	require.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = repo.Exists(ctx, nil, "u-2", "c-1")
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestEnrollmentDeleteByCourse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEnrollmentPostgreSQL(db, nil)
	ctx := context.Background()

	createTestCourse(t, db, "c-1", "Course", "CS1")
	require.NoError(t, repo.AddCourses(ctx, nil, "u-1", []string{"c-1"}))
	require.NoError(t, repo.AddCourses(ctx, nil, "u-2", []string{"c-1"}))

	require.NoError(t, repo.DeleteByCourse(ctx, nil, "c-1"))

	ids, err := repo.ListCourseIDsByUser(ctx, nil, "u-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
