package models

import (
	"time"
)

// Folder is a content folder inside a course. ParentFolderID is nil for
// root-level folders; when set it must reference a folder of the same
// course (no cross-course nesting).
type Folder struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Title          string    `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	CourseID       string    `json:"course_id" gorm:"not null;size:36;index"`
	ParentFolderID *string   `json:"parent_folder_id" gorm:"size:36;index"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Subfolders []Folder `json:"subfolders,omitempty" gorm:"foreignKey:ParentFolderID;constraint:OnDelete:CASCADE"`
	Files      []File   `json:"files,omitempty" gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE"`
}

func (Folder) TableName() string {
	return "folders"
}
