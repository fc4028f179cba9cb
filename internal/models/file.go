package models

import (
	"path/filepath"
	"strings"
	"time"
)

type FileKind string

const (
	KindPlain   FileKind = "plain"
	KindArchive FileKind = "archive"
)

// KindFromFilename infers the file kind from the upload's extension.
func KindFromFilename(name string) FileKind {
	if strings.EqualFold(filepath.Ext(name), ".zip") {
		return KindArchive
	}
	return KindPlain
}

// File is a stored course material. FilePath is the opaque object-store
// key; the record does not own the bytes.
type File struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	CourseID  string    `json:"course_id" gorm:"not null;size:36;index"`
	FolderID  *string   `json:"folder_id" gorm:"size:36;index"`
	FilePath  string    `json:"-" gorm:"not null;size:500"`
	Kind      FileKind  `json:"kind" gorm:"not null;size:16;default:plain"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (File) TableName() string {
	return "files"
}
