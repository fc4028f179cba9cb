package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

func TestSyncRequiresAuthentication(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())

	_, err := svc.Sync(context.Background(), &SyncEnrollmentsRequest{}, Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSyncAppliesDifferential(t *testing.T) {
	repo, db := setupServiceTest(t)
	content := newTestContentService(repo, db, newFakeObjectStore())
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())
	ctx := context.Background()

	courseA := mustCreateCourse(t, content, "Algorithms", "CS201")
	courseB := mustCreateCourse(t, content, "Databases", "CS301")

	result, err := svc.Sync(ctx, &SyncEnrollmentsRequest{ToAdd: []string{courseA.ID, courseB.ID}}, memberActor)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Removed)

	// Re-adding an enrolled course and leaving one in the same request
	result, err = svc.Sync(ctx, &SyncEnrollmentsRequest{
		ToAdd:    []string{courseA.ID},
		ToRemove: []string{courseB.ID},
	}, memberActor)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Removed)

	ids, err := repo.Enrollment().ListCourseIDsByUser(ctx, nil, memberActor.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{courseA.ID}, ids)
}

func TestSyncAddThenRemoveLeavesExactlyTheRest(t *testing.T) {
	repo, db := setupServiceTest(t)
	content := newTestContentService(repo, db, newFakeObjectStore())
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())
	ctx := context.Background()

	courseA := mustCreateCourse(t, content, "Algorithms", "CS201")
	courseB := mustCreateCourse(t, content, "Databases", "CS301")
	courseC := mustCreateCourse(t, content, "Networks", "CS305")

	_, err := svc.Sync(ctx, &SyncEnrollmentsRequest{
		ToAdd:    []string{courseA.ID, courseB.ID},
		ToRemove: []string{courseC.ID},
	}, memberActor)
	require.NoError(t, err)

	result, err := svc.Sync(ctx, &SyncEnrollmentsRequest{ToRemove: []string{courseA.ID}}, memberActor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)

	ids, err := repo.Enrollment().ListCourseIDsByUser(ctx, nil, memberActor.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{courseB.ID}, ids)
}

func TestSyncEmptyRequestIsLegalNoOp(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())

	result, err := svc.Sync(context.Background(), &SyncEnrollmentsRequest{}, memberActor)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Removed)
}

func TestSyncUnknownCourse(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())

	_, err := svc.Sync(context.Background(), &SyncEnrollmentsRequest{
		ToAdd: []string{"00000000-0000-4000-8000-000000000000"},
	}, memberActor)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSyncIsScopedToTheCaller(t *testing.T) {
	repo, db := setupServiceTest(t)
	content := newTestContentService(repo, db, newFakeObjectStore())
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())
	ctx := context.Background()

	course := mustCreateCourse(t, content, "Algorithms", "CS201")
	enrollMember(t, repo, course.ID, "someone-else")

	_, err := svc.Sync(ctx, &SyncEnrollmentsRequest{ToRemove: []string{course.ID}}, memberActor)
	require.NoError(t, err)

	// The other member's enrollment is untouched
	still, err := repo.Enrollment().Exists(ctx, nil, "someone-else", course.ID)
	require.NoError(t, err)
	assert.True(t, still)
}

func TestSyncInvalidatesCachedEnrollments(t *testing.T) {
	repo, db := setupServiceTestWithCache(t)
	content := newTestContentService(repo, db, newFakeObjectStore())
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())
	ctx := context.Background()

	courseA := mustCreateCourse(t, content, "Algorithms", "CS201")
	courseB := mustCreateCourse(t, content, "Databases", "CS301")

	_, err := svc.Sync(ctx, &SyncEnrollmentsRequest{ToAdd: []string{courseA.ID}}, memberActor)
	require.NoError(t, err)

	// Warm the cached listing before the next sync
	mine, err := svc.ListMine(ctx, memberActor)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = svc.Sync(ctx, &SyncEnrollmentsRequest{
		ToAdd:    []string{courseB.ID},
		ToRemove: []string{courseA.ID},
	}, memberActor)
	require.NoError(t, err)

	mine, err = svc.ListMine(ctx, memberActor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, courseB.ID, mine[0].CourseID)
}

func TestListMineReturnsOwnEnrollmentsOnly(t *testing.T) {
	repo, db := setupServiceTest(t)
	content := newTestContentService(repo, db, newFakeObjectStore())
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())
	ctx := context.Background()

	courseA := mustCreateCourse(t, content, "Algorithms", "CS201")
	courseB := mustCreateCourse(t, content, "Databases", "CS301")

	enrollMember(t, repo, courseA.ID, memberActor.ID)
	enrollMember(t, repo, courseB.ID, "someone-else")

	mine, err := svc.ListMine(ctx, memberActor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, courseA.ID, mine[0].CourseID)

	_, err = svc.ListMine(ctx, Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRosterEnrichesWithLocalProfiles(t *testing.T) {
	repo, db := setupServiceTest(t)
	content := newTestContentService(repo, db, newFakeObjectStore())
	svc := NewEnrollmentService(repo, db, testLogger(), validator.New())
	ctx := context.Background()

	course := mustCreateCourse(t, content, "Algorithms", "CS201")
	enrollMember(t, repo, course.ID, "u-1")
	enrollMember(t, repo, course.ID, "u-2")

	require.NoError(t, repo.User().Upsert(ctx, nil, &models.User{
		ID: "u-1", FullName: "Ada Lovelace", Email: "ada@example.com",
	}))

	entries, err := svc.Roster(ctx, course.ID, adminActor)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := map[string]*RosterEntry{}
	for _, e := range entries {
		byID[e.UserID] = e
	}
	require.NotNil(t, byID["u-1"].Profile)
	assert.Equal(t, "Ada Lovelace", byID["u-1"].Profile.FullName)
	assert.Nil(t, byID["u-2"].Profile)

	_, err = svc.Roster(ctx, course.ID, memberActor)
	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))
}
