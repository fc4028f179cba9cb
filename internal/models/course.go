package models

import (
	"time"
)

type Course struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Code      string    `json:"code" gorm:"not null;size:32" validate:"required,min=1,max=32"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Folders []Folder `json:"folders,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Files   []File   `json:"files,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}
