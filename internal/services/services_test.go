package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
	"github.com/SAP-F-2025/course-content-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/course-content-service/internal/storage"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

var (
	adminActor  = Actor{ID: "admin-1", Role: models.RoleAdmin}
	memberActor = Actor{ID: "member-1", Role: models.RoleMember}
)

func setupServiceTest(t *testing.T) (repositories.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Course{},
		&models.Folder{},
		&models.File{},
		&models.Enrollment{},
		&models.ReadMark{},
		&models.User{},
	))

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	return repo, db
}

// setupServiceTestWithCache is setupServiceTest plus an in-process
// cache, for tests that observe invalidation behavior.
func setupServiceTestWithCache(t *testing.T) (repositories.Repository, *gorm.DB) {
	t.Helper()

	_, db := setupServiceTest(t)

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: client})
	return repo, db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeObjectStore records operations instead of talking to a real
// bucket
type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	presignErr error
	putErr     error
	presigned  []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, key, filename string, ttl time.Duration) (*storage.PresignedURL, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.presigned = append(f.presigned, key)
	return &storage.PresignedURL{
		URL:       fmt.Sprintf("https://store.test/%s?filename=%s", key, filename),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func newTestContentService(repo repositories.Repository, db *gorm.DB, store storage.ObjectStore) ContentService {
	return NewContentService(repo, db, testLogger(), validator.New(), store)
}

func mustCreateCourse(t *testing.T, svc ContentService, title, code string) *models.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), &CreateCourseRequest{Title: title, Code: code}, adminActor)
	require.NoError(t, err)
	return course
}

func mustUploadFile(t *testing.T, svc ContentService, courseID string, folderID *string, filename string) *models.File {
	t.Helper()
	content := bytes.NewBufferString("payload")
	file, err := svc.CreateFile(context.Background(), &CreateFileRequest{
		Title:    filename,
		CourseID: courseID,
		FolderID: folderID,
		Filename: filename,
	}, content, int64(content.Len()), "application/octet-stream", adminActor)
	require.NoError(t, err)
	return file
}

func enrollMember(t *testing.T, repo repositories.Repository, courseID, userID string) {
	t.Helper()
	require.NoError(t, repo.Enrollment().AddCourses(context.Background(), nil, userID, []string{courseID}))
}
