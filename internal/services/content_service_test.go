package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseRequiresAdmin(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())

	_, err := svc.CreateCourse(context.Background(), &CreateCourseRequest{Title: "Algorithms", Code: "CS201"}, memberActor)

	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))
	assert.Equal(t, "create", permErr.Action)
}

func TestCreateCourseRejectsDuplicateCode(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())

	mustCreateCourse(t, svc, "Algorithms", "CS201")

	_, err := svc.CreateCourse(context.Background(), &CreateCourseRequest{Title: "Other", Code: "CS201"}, adminActor)

	var ruleErr *BusinessRuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "course_code_unique", ruleErr.Rule)
}

func TestGetCourseContentEnforcesEnrollment(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")

	_, err := svc.GetCourseContent(ctx, course.ID, memberActor)
	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))

	enrollMember(t, repo, course.ID, memberActor.ID)

	content, err := svc.GetCourseContent(ctx, course.ID, memberActor)
	require.NoError(t, err)
	assert.Equal(t, course.ID, content.Course.ID)
	assert.Empty(t, content.Folders)
	assert.Empty(t, content.Files)
}

func TestCreateFolderRejectsForeignParent(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())
	ctx := context.Background()

	courseA := mustCreateCourse(t, svc, "Algorithms", "CS201")
	courseB := mustCreateCourse(t, svc, "Databases", "CS301")

	parent, err := svc.CreateFolder(ctx, &CreateFolderRequest{Title: "Week 1", CourseID: courseA.ID}, adminActor)
	require.NoError(t, err)

	_, err = svc.CreateFolder(ctx, &CreateFolderRequest{Title: "Week 1", CourseID: courseB.ID, ParentFolderID: &parent.ID}, adminActor)
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = svc.CreateFolder(ctx, &CreateFolderRequest{Title: "Nested", CourseID: courseA.ID, ParentFolderID: &parent.ID}, adminActor)
	assert.NoError(t, err)
}

func TestCreateFileStoresObjectAndRecord(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	svc := newTestContentService(repo, db, store)
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")
	file := mustUploadFile(t, svc, course.ID, nil, "notes.pdf")

	assert.True(t, store.has(file.FilePath))
	assert.NotContains(t, file.FilePath, "notes")

	got, err := repo.File().GetByID(ctx, nil, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", got.Title)
}

func TestCreateFileClassifiesArchives(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")

	archive := mustUploadFile(t, svc, course.ID, nil, "materials.ZIP")
	plain := mustUploadFile(t, svc, course.ID, nil, "notes.pdf")

	assert.Equal(t, "archive", string(archive.Kind))
	assert.Equal(t, "plain", string(plain.Kind))
}

func TestCreateFileUploadFailureLeavesNoRecord(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	store.putErr = errors.New("bucket gone")
	svc := newTestContentService(repo, db, store)
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")

	_, err := svc.CreateFile(ctx, &CreateFileRequest{Title: "Notes", CourseID: course.ID, Filename: "notes.pdf"},
		nil, 0, "application/pdf", adminActor)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	files, err := repo.File().ListByCourse(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDeleteFolderCascades(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	svc := newTestContentService(repo, db, store)
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")
	parent, err := svc.CreateFolder(ctx, &CreateFolderRequest{Title: "Week 1", CourseID: course.ID}, adminActor)
	require.NoError(t, err)
	child, err := svc.CreateFolder(ctx, &CreateFolderRequest{Title: "Labs", CourseID: course.ID, ParentFolderID: &parent.ID}, adminActor)
	require.NoError(t, err)

	nested := mustUploadFile(t, svc, course.ID, &child.ID, "lab1.pdf")
	rootFile := mustUploadFile(t, svc, course.ID, nil, "syllabus.pdf")

	enrollMember(t, repo, course.ID, memberActor.ID)
	require.NoError(t, repo.ReadMark().Mark(ctx, nil, memberActor.ID, nested.ID))

	require.NoError(t, svc.DeleteFolder(ctx, parent.ID, adminActor))

	_, err = repo.Folder().GetByID(ctx, nil, child.ID)
	assert.Error(t, err)
	_, err = repo.File().GetByID(ctx, nil, nested.ID)
	assert.Error(t, err)
	assert.False(t, store.has(nested.FilePath))

	// Content outside the subtree survives
	_, err = repo.File().GetByID(ctx, nil, rootFile.ID)
	assert.NoError(t, err)
	assert.True(t, store.has(rootFile.FilePath))

	readIDs, err := repo.ReadMark().GetReadFileIDs(ctx, nil, memberActor.ID, []string{nested.ID})
	require.NoError(t, err)
	assert.Empty(t, readIDs)
}

func TestDeleteCourseCascades(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	svc := newTestContentService(repo, db, store)
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")
	folder, err := svc.CreateFolder(ctx, &CreateFolderRequest{Title: "Week 1", CourseID: course.ID}, adminActor)
	require.NoError(t, err)
	mustUploadFile(t, svc, course.ID, &folder.ID, "lab1.pdf")
	mustUploadFile(t, svc, course.ID, nil, "syllabus.pdf")
	enrollMember(t, repo, course.ID, memberActor.ID)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID, adminActor))

	_, err = repo.Course().GetByID(ctx, nil, course.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, store.count())

	enrolled, err := repo.Enrollment().Exists(ctx, nil, memberActor.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestGetFileDetailNavigationAndReadFlag(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")
	first := mustUploadFile(t, svc, course.ID, nil, "a.pdf")
	second := mustUploadFile(t, svc, course.ID, nil, "b.pdf")
	third := mustUploadFile(t, svc, course.ID, nil, "c.pdf")

	enrollMember(t, repo, course.ID, memberActor.ID)
	require.NoError(t, repo.ReadMark().Mark(ctx, nil, memberActor.ID, second.ID))

	detail, err := svc.GetFileDetail(ctx, second.ID, memberActor)
	require.NoError(t, err)
	assert.True(t, detail.Read)
	require.NotNil(t, detail.Prev)
	require.NotNil(t, detail.Next)
	assert.Equal(t, first.ID, detail.Prev.ID)
	assert.Equal(t, third.ID, detail.Next.ID)

	detail, err = svc.GetFileDetail(ctx, first.ID, memberActor)
	require.NoError(t, err)
	assert.False(t, detail.Read)
	assert.Nil(t, detail.Prev)
}

func TestRenameFileKeepsStorageKey(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())
	ctx := context.Background()

	course := mustCreateCourse(t, svc, "Algorithms", "CS201")
	file := mustUploadFile(t, svc, course.ID, nil, "notes.pdf")

	renamed, err := svc.RenameFile(ctx, file.ID, &UpdateFileRequest{Title: "Lecture Notes"}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, "Lecture Notes", renamed.Title)
	assert.Equal(t, file.FilePath, renamed.FilePath)
}

func TestListCoursesVisibleToAnyAuthenticatedUser(t *testing.T) {
	repo, db := setupServiceTest(t)
	svc := newTestContentService(repo, db, newFakeObjectStore())
	ctx := context.Background()

	mustCreateCourse(t, svc, "Databases", "CS301")
	mustCreateCourse(t, svc, "Algorithms", "CS201")

	summaries, err := svc.ListCourses(ctx, memberActor)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Algorithms", summaries[0].Title)

	_, err = svc.ListCourses(ctx, Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
