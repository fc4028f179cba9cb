package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
	"github.com/SAP-F-2025/course-content-service/internal/storage"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

type contentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	store     storage.ObjectStore
}

func NewContentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, store storage.ObjectStore) ContentService {
	return &contentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		store:     store,
	}
}

// ===== COURSES =====

func (s *contentService) CreateCourse(ctx context.Context, req *CreateCourseRequest, actor Actor) (*models.Course, error) {
	s.logger.Info("Creating course", "actor_id", actor.ID, "title", req.Title)

	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, "", "course", "create", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.repo.Course().ExistsByCode(ctx, nil, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	}
	if taken {
		return nil, NewBusinessRuleError("course_code_unique", fmt.Sprintf("course code %s already in use", req.Code))
	}

	course := &models.Course{
		ID:    uuid.NewString(),
		Title: strings.TrimSpace(req.Title),
		Code:  req.Code,
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID)
	return course, nil
}

func (s *contentService) UpdateCourse(ctx context.Context, id string, req *UpdateCourseRequest, actor Actor) (*models.Course, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, id, "course", "update", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Code != nil && *req.Code != course.Code {
		taken, err := s.repo.Course().ExistsByCode(ctx, nil, *req.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to check course code: %w", err)
		}
		if taken {
			return nil, NewBusinessRuleError("course_code_unique", fmt.Sprintf("course code %s already in use", *req.Code))
		}
		course.Code = *req.Code
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes the course and everything under it in one
// transaction, then cleans stored objects best effort.
func (s *contentService) DeleteCourse(ctx context.Context, id string, actor Actor) error {
	s.logger.Info("Deleting course", "actor_id", actor.ID, "course_id", id)

	if !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "course", "delete", "admin role required")
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return ErrCourseNotFound
	}

	var orphanedKeys []string
	var enrolledUsers []string
	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		files, err := r.File().ListByCourse(ctx, nil, id)
		if err != nil {
			return err
		}

		fileIDs := make([]string, 0, len(files))
		for _, f := range files {
			fileIDs = append(fileIDs, f.ID)
			orphanedKeys = append(orphanedKeys, f.FilePath)
		}

		enrollments, err := r.Enrollment().ListByCourse(ctx, nil, id)
		if err != nil {
			return err
		}
		for _, enrollment := range enrollments {
			enrolledUsers = append(enrolledUsers, enrollment.UserID)
		}

		if err := r.ReadMark().DeleteByFiles(ctx, nil, fileIDs); err != nil {
			return err
		}
		if err := r.File().DeleteByCourse(ctx, nil, id); err != nil {
			return err
		}
		if err := r.Folder().DeleteByCourse(ctx, nil, id); err != nil {
			return err
		}
		if err := r.Enrollment().DeleteByCourse(ctx, nil, id); err != nil {
			return err
		}
		return r.Course().Delete(ctx, nil, id)
	})
	if err != nil {
		return err
	}

	s.repo.Enrollment().InvalidateUsers(ctx, enrolledUsers)
	s.deleteObjects(ctx, orphanedKeys)
	s.logger.Info("Course deleted", "course_id", id, "files_removed", len(orphanedKeys))
	return nil
}

func (s *contentService) ListCourses(ctx context.Context, actor Actor) ([]*repositories.CourseSummary, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.Course().ListSummaries(ctx, nil)
}

func (s *contentService) GetCourseContent(ctx context.Context, id string, actor Actor) (*CourseContentResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if err := s.requireCourseAccess(ctx, id, actor, "read"); err != nil {
		return nil, err
	}

	folders, err := s.repo.Folder().GetChildren(ctx, nil, id, nil)
	if err != nil {
		return nil, err
	}

	files, err := s.repo.File().GetChildren(ctx, nil, id, nil)
	if err != nil {
		return nil, err
	}

	decorated, err := s.decorateFiles(ctx, files, actor)
	if err != nil {
		return nil, err
	}

	return &CourseContentResponse{
		Course:  course,
		Folders: folders,
		Files:   decorated,
	}, nil
}

// ===== FOLDERS =====

func (s *contentService) CreateFolder(ctx context.Context, req *CreateFolderRequest, actor Actor) (*models.Folder, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, req.CourseID, "folder", "create", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	// A parent must exist and belong to the same course
	if req.ParentFolderID != nil {
		parent, err := s.repo.Folder().GetByID(ctx, nil, *req.ParentFolderID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if parent.CourseID != req.CourseID {
			return nil, ErrInvalidParent
		}
	}

	folder := &models.Folder{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(req.Title),
		CourseID:       req.CourseID,
		ParentFolderID: req.ParentFolderID,
	}

	if err := s.repo.Folder().Create(ctx, nil, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	s.logger.Info("Folder created", "folder_id", folder.ID, "course_id", folder.CourseID)
	return folder, nil
}

func (s *contentService) RenameFolder(ctx context.Context, id string, req *UpdateFolderRequest, actor Actor) (*models.Folder, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, id, "folder", "rename", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	folder, err := s.repo.Folder().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}

	folder.Title = strings.TrimSpace(req.Title)
	if err := s.repo.Folder().Update(ctx, nil, folder); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}

	return folder, nil
}

// DeleteFolder removes the folder subtree, its files and their read
// marks in one transaction.
func (s *contentService) DeleteFolder(ctx context.Context, id string, actor Actor) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "folder", "delete", "admin role required")
	}

	folder, err := s.repo.Folder().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFolderNotFound
		}
		return err
	}

	var orphanedKeys []string
	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		folderIDs, err := r.Folder().GetDescendantIDs(ctx, nil, id)
		if err != nil {
			return err
		}

		files, err := r.File().ListByFolders(ctx, nil, folderIDs)
		if err != nil {
			return err
		}

		fileIDs := make([]string, 0, len(files))
		for _, f := range files {
			fileIDs = append(fileIDs, f.ID)
			orphanedKeys = append(orphanedKeys, f.FilePath)
		}

		if err := r.ReadMark().DeleteByFiles(ctx, nil, fileIDs); err != nil {
			return err
		}
		if err := r.File().DeleteByFolders(ctx, nil, folder.CourseID, folderIDs); err != nil {
			return err
		}
		return r.Folder().Delete(ctx, nil, folder.CourseID, folderIDs)
	})
	if err != nil {
		return err
	}

	s.deleteObjects(ctx, orphanedKeys)
	s.logger.Info("Folder deleted", "folder_id", id, "course_id", folder.CourseID, "files_removed", len(orphanedKeys))
	return nil
}

func (s *contentService) GetFolderContent(ctx context.Context, id string, actor Actor) (*FolderContentResponse, error) {
	folder, err := s.repo.Folder().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}

	if err := s.requireCourseAccess(ctx, folder.CourseID, actor, "read"); err != nil {
		return nil, err
	}

	subfolders, err := s.repo.Folder().GetChildren(ctx, nil, folder.CourseID, &folder.ID)
	if err != nil {
		return nil, err
	}

	files, err := s.repo.File().GetChildren(ctx, nil, folder.CourseID, &folder.ID)
	if err != nil {
		return nil, err
	}

	decorated, err := s.decorateFiles(ctx, files, actor)
	if err != nil {
		return nil, err
	}

	return &FolderContentResponse{
		Folder:     folder,
		Subfolders: subfolders,
		Files:      decorated,
	}, nil
}

// ===== FILES =====

// CreateFile uploads the content bytes first and only then records the
// metadata; a failed record removes the fresh object again.
func (s *contentService) CreateFile(ctx context.Context, req *CreateFileRequest, content io.Reader, size int64, contentType string, actor Actor) (*models.File, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, req.CourseID, "file", "create", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	if req.FolderID != nil {
		folder, err := s.repo.Folder().GetByID(ctx, nil, *req.FolderID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if folder.CourseID != req.CourseID {
			return nil, ErrInvalidParent
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = req.Filename
	}

	// Storage key is a fresh UUID plus the original extension; the
	// upload name never becomes part of the key
	ext := filepath.Ext(req.Filename)
	key := uuid.NewString() + strings.ToLower(ext)

	if err := s.store.Put(ctx, key, content, size, contentType); err != nil {
		s.logger.Error("Upload failed", "error", err, "course_id", req.CourseID)
		return nil, ErrStoreUnavailable
	}

	file := &models.File{
		ID:       uuid.NewString(),
		Title:    title,
		CourseID: req.CourseID,
		FolderID: req.FolderID,
		FilePath: key,
		Kind:     models.KindFromFilename(req.Filename),
	}

	if err := s.repo.File().Create(ctx, nil, file); err != nil {
		s.deleteObjects(ctx, []string{key})
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.logger.Info("File created", "file_id", file.ID, "course_id", file.CourseID, "kind", file.Kind)
	return file, nil
}

func (s *contentService) RenameFile(ctx context.Context, id string, req *UpdateFileRequest, actor Actor) (*models.File, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, id, "file", "rename", "admin role required")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	file, err := s.repo.File().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	file.Title = strings.TrimSpace(req.Title)
	if err := s.repo.File().Update(ctx, nil, file); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return file, nil
}

func (s *contentService) DeleteFile(ctx context.Context, id string, actor Actor) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "file", "delete", "admin role required")
	}

	file, err := s.repo.File().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFileNotFound
		}
		return err
	}

	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.ReadMark().DeleteByFiles(ctx, nil, []string{id}); err != nil {
			return err
		}
		return r.File().Delete(ctx, nil, file.CourseID, id)
	})
	if err != nil {
		return err
	}

	s.deleteObjects(ctx, []string{file.FilePath})
	s.logger.Info("File deleted", "file_id", id, "course_id", file.CourseID)
	return nil
}

func (s *contentService) GetFileDetail(ctx context.Context, id string, actor Actor) (*FileDetailResponse, error) {
	file, err := s.repo.File().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	if err := s.requireCourseAccess(ctx, file.CourseID, actor, "read"); err != nil {
		return nil, err
	}

	neighbors, err := s.repo.File().GetNeighbors(ctx, nil, file)
	if err != nil {
		return nil, err
	}

	readIDs, err := s.repo.ReadMark().GetReadFileIDs(ctx, nil, actor.ID, []string{file.ID})
	if err != nil {
		return nil, err
	}

	return &FileDetailResponse{
		File: file,
		Read: len(readIDs) > 0,
		Prev: neighbors.Prev,
		Next: neighbors.Next,
	}, nil
}

// ===== HELPERS =====

// requireCourseAccess enforces the visibility rule: admins see every
// course, members only courses they are enrolled in.
func (s *contentService) requireCourseAccess(ctx context.Context, courseID string, actor Actor, action string) error {
	if actor.ID == "" {
		return ErrUnauthorized
	}
	if actor.IsAdmin() {
		return nil
	}

	enrolled, err := s.repo.Enrollment().Exists(ctx, nil, actor.ID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return NewPermissionError(actor.ID, courseID, "course", action, "not enrolled")
	}
	return nil
}

// decorateFiles attaches the caller's read flags in one batch query
func (s *contentService) decorateFiles(ctx context.Context, files []*models.File, actor Actor) ([]*FileResponse, error) {
	decorated := make([]*FileResponse, 0, len(files))
	if len(files) == 0 {
		return decorated, nil
	}

	fileIDs := make([]string, 0, len(files))
	for _, f := range files {
		fileIDs = append(fileIDs, f.ID)
	}

	readIDs, err := s.repo.ReadMark().GetReadFileIDs(ctx, nil, actor.ID, fileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load read flags: %w", err)
	}

	readSet := make(map[string]bool, len(readIDs))
	for _, id := range readIDs {
		readSet[id] = true
	}

	for _, f := range files {
		decorated = append(decorated, &FileResponse{File: f, Read: readSet[f.ID]})
	}
	return decorated, nil
}

// deleteObjects removes stored objects best effort after the database
// transaction committed; a leaked object is logged, never surfaced.
func (s *contentService) deleteObjects(ctx context.Context, keys []string) {
	if s.store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete stored object", "error", err, "key", key)
		}
	}
}
