package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateFolderRequest = validator.FolderCreateRequest
type UpdateFolderRequest = validator.FolderUpdateRequest
type CreateFileRequest = validator.FileCreateRequest
type UpdateFileRequest = validator.FileUpdateRequest
type SyncEnrollmentsRequest = validator.EnrollmentSyncRequest
type ReadStatusBatchRequest = validator.ReadStatusBatchRequest

// Actor is the authenticated caller: subject ID plus the role resolved
// from the request token. Role never comes from storage.
type Actor struct {
	ID   string
	Role models.UserRole
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// FileResponse decorates a file with the caller's read flag
type FileResponse struct {
	*models.File
	Read bool `json:"read"`
}

// CourseContentResponse is a course plus its root-level children
type CourseContentResponse struct {
	*models.Course
	Folders []*models.Folder `json:"folders"`
	Files   []*FileResponse  `json:"files"`
}

// FolderContentResponse is a folder plus its direct children
type FolderContentResponse struct {
	*models.Folder
	Subfolders []*models.Folder `json:"subfolders"`
	Files      []*FileResponse  `json:"files"`
}

// FileDetailResponse is a file with its read flag and sibling links for
// previous/next navigation within the same container
type FileDetailResponse struct {
	*models.File
	Read bool         `json:"read"`
	Prev *models.File `json:"prev"`
	Next *models.File `json:"next"`
}

// SyncEnrollmentsResult reports what a differential sync actually did
type SyncEnrollmentsResult struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// RosterEntry is one enrolled member with the profile when known
type RosterEntry struct {
	UserID     string       `json:"user_id"`
	EnrolledAt time.Time    `json:"enrolled_at"`
	Profile    *models.User `json:"profile,omitempty"`
}

// DownloadLink is a short-lived signed URL for one file
type DownloadLink struct {
	URL              string `json:"url"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

// ReadStatusResponse lists which of the requested files are read
type ReadStatusResponse struct {
	ReadFileIDs []string `json:"read_file_ids"`
}

// UserCreatedEvent is the identity lifecycle payload consumed from the
// message bus
type UserCreatedEvent struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ===== SERVICE INTERFACES =====

// ContentService owns the course/folder/file tree
type ContentService interface {
	// Courses
	CreateCourse(ctx context.Context, req *CreateCourseRequest, actor Actor) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req *UpdateCourseRequest, actor Actor) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string, actor Actor) error
	ListCourses(ctx context.Context, actor Actor) ([]*repositories.CourseSummary, error)
	GetCourseContent(ctx context.Context, id string, actor Actor) (*CourseContentResponse, error)

	// Folders
	CreateFolder(ctx context.Context, req *CreateFolderRequest, actor Actor) (*models.Folder, error)
	RenameFolder(ctx context.Context, id string, req *UpdateFolderRequest, actor Actor) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id string, actor Actor) error
	GetFolderContent(ctx context.Context, id string, actor Actor) (*FolderContentResponse, error)

	// Files
	CreateFile(ctx context.Context, req *CreateFileRequest, content io.Reader, size int64, contentType string, actor Actor) (*models.File, error)
	RenameFile(ctx context.Context, id string, req *UpdateFileRequest, actor Actor) (*models.File, error)
	DeleteFile(ctx context.Context, id string, actor Actor) error
	GetFileDetail(ctx context.Context, id string, actor Actor) (*FileDetailResponse, error)
}

// EnrollmentService owns course membership. Sync reconciles the
// caller's own course set from a client-computed diff.
type EnrollmentService interface {
	Sync(ctx context.Context, req *SyncEnrollmentsRequest, actor Actor) (*SyncEnrollmentsResult, error)
	ListMine(ctx context.Context, actor Actor) ([]*models.Enrollment, error)
	Roster(ctx context.Context, courseID string, actor Actor) ([]*RosterEntry, error)
}

// ReadStatusService owns the per-user read overlay
type ReadStatusService interface {
	MarkRead(ctx context.Context, fileID string, actor Actor) error
	MarkUnread(ctx context.Context, fileID string, actor Actor) error
	GetReadStatus(ctx context.Context, req *ReadStatusBatchRequest, actor Actor) (*ReadStatusResponse, error)
}

// DownloadService issues signed access to stored objects
type DownloadService interface {
	IssueDownloadLink(ctx context.Context, fileID string, actor Actor) (*DownloadLink, error)
}

// UserService owns profiles and identity lifecycle
type UserService interface {
	GetProfile(ctx context.Context, actor Actor) (*models.User, error)
	ProvisionUser(ctx context.Context, evt *UserCreatedEvent) error
	ListUsers(ctx context.Context, filters repositories.UserFilters, actor Actor) ([]*models.User, int64, error)
}

// ServiceManager provides access to all services with lifecycle management
type ServiceManager interface {
	Content() ContentService
	Enrollment() EnrollmentService
	ReadStatus() ReadStatusService
	Download() DownloadService
	User() UserService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
	IsInitialized() bool
}
