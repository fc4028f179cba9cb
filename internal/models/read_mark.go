package models

import (
	"time"
)

// ReadMark records that a user has read a file. Existence is the whole
// fact: present == read, absent == unread.
type ReadMark struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;size:255"`
	FileID    string    `json:"file_id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReadMark) TableName() string {
	return "read_marks"
}
