package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/course-content-service/internal/models"
)

func TestIssueDownloadLink(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	content := newTestContentService(repo, db, store)
	svc := NewDownloadService(repo, store, testLogger())
	ctx := context.Background()

	course := mustCreateCourse(t, content, "Algorithms", "CS201")
	file := mustUploadFile(t, content, course.ID, nil, "notes.pdf")
	enrollMember(t, repo, course.ID, memberActor.ID)

	link, err := svc.IssueDownloadLink(ctx, file.ID, memberActor)
	require.NoError(t, err)
	assert.Contains(t, link.URL, file.FilePath)
	assert.Equal(t, int(DownloadLinkTTL.Seconds()), link.ExpiresInSeconds)
}

func TestIssueDownloadLinkRequiresEnrollment(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	content := newTestContentService(repo, db, store)
	svc := NewDownloadService(repo, store, testLogger())
	ctx := context.Background()

	course := mustCreateCourse(t, content, "Algorithms", "CS201")
	file := mustUploadFile(t, content, course.ID, nil, "notes.pdf")

	_, err := svc.IssueDownloadLink(ctx, file.ID, memberActor)
	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))

	_, err = svc.IssueDownloadLink(ctx, file.ID, adminActor)
	assert.NoError(t, err)
}

func TestIssueDownloadLinkUnknownFile(t *testing.T) {
	repo, _ := setupServiceTest(t)
	svc := NewDownloadService(repo, newFakeObjectStore(), testLogger())

	_, err := svc.IssueDownloadLink(context.Background(), "missing", adminActor)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestIssueDownloadLinkStoreFailure(t *testing.T) {
	repo, db := setupServiceTest(t)
	store := newFakeObjectStore()
	content := newTestContentService(repo, db, store)
	svc := NewDownloadService(repo, store, testLogger())
	ctx := context.Background()

	course := mustCreateCourse(t, content, "Algorithms", "CS201")
	file := mustUploadFile(t, content, course.ID, nil, "notes.pdf")

	store.presignErr = errors.New("signer offline")

	_, err := svc.IssueDownloadLink(ctx, file.ID, adminActor)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		filePath string
		want     string
	}{
		{"plain title", "notes", "abc.pdf", "notes.pdf"},
		{"spaces and punctuation replaced", "Week 1: Intro!", "abc.pdf", "Week_1__Intro_.pdf"},
		{"only unsafe characters", "???", "abc.zip", "download.zip"},
		{"keeps dashes and underscores", "lab-1_final", "abc.zip", "lab-1_final.zip"},
		{"title carries its own extension", "My File! (v2).pdf", "abc.pdf", "My_File___v2_.pdf"},
		{"key without extension", "notes", "abc", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &models.File{Title: tt.title, FilePath: tt.filePath}
			got := downloadFilename(file)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.ContainsAny(got, `"\`))
		})
	}
}
