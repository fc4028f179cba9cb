package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
	"github.com/SAP-F-2025/course-content-service/internal/storage"
)

// DownloadLinkTTL is how long an issued link stays valid
const DownloadLinkTTL = 60 * time.Second

var unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9_-]`)

type downloadService struct {
	repo   repositories.Repository
	store  storage.ObjectStore
	logger *slog.Logger
}

func NewDownloadService(repo repositories.Repository, store storage.ObjectStore, logger *slog.Logger) DownloadService {
	return &downloadService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// IssueDownloadLink hands out a short-lived signed URL for one file.
// The download filename is derived from the display title, never from
// the storage key.
func (s *downloadService) IssueDownloadLink(ctx context.Context, fileID string, actor Actor) (*DownloadLink, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}

	file, err := s.repo.File().GetByID(ctx, nil, fileID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		enrolled, err := s.repo.Enrollment().Exists(ctx, nil, actor.ID, file.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, NewPermissionError(actor.ID, file.CourseID, "file", "download", "not enrolled")
		}
	}

	presigned, err := s.store.PresignGet(ctx, file.FilePath, downloadFilename(file), DownloadLinkTTL)
	if err != nil {
		s.logger.Error("Failed to presign download", "error", err, "file_id", fileID)
		return nil, ErrStoreUnavailable
	}

	s.logger.Info("Issued download link", "file_id", fileID, "user_id", actor.ID)
	return &DownloadLink{
		URL:              presigned.URL,
		ExpiresInSeconds: int(DownloadLinkTTL.Seconds()),
	}, nil
}

// downloadFilename builds a header-safe name: the sanitized title plus
// the extension carried by the storage key. An extension in the title
// itself is dropped so it never doubles up or gets mangled into the
// base name.
func downloadFilename(file *models.File) string {
	title := strings.TrimSuffix(file.Title, filepath.Ext(file.Title))
	name := unsafeFilenameChars.ReplaceAllString(title, "_")
	if name == "" || strings.Trim(name, "_") == "" {
		name = "download"
	}
	return name + filepath.Ext(file.FilePath)
}
