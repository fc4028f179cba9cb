package models

import (
	"time"
)

// Enrollment exists while a member is enrolled in a course; absence
// means not enrolled. Rows are never updated in place.
type Enrollment struct {
	UserID     string    `json:"user_id" gorm:"primaryKey;size:255"`
	CourseID   string    `json:"course_id" gorm:"primaryKey;size:36"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime;index"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string {
	return "course_enrollments"
}
