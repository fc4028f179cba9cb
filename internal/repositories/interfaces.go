package repositories

import (
	"time"

	"github.com/SAP-F-2025/course-content-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "title", "code", "created_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type UserFilters struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// CourseSummary is the trimmed projection used by course pickers; it
// deliberately omits the content tree.
type CourseSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

// FileNeighbors holds the previous and next sibling of a file within
// its (course, folder) container. Either side is nil at the edge.
type FileNeighbors struct {
	Prev *models.File `json:"prev"`
	Next *models.File `json:"next"`
}

// EnrollmentChange is the differential input for a sync: IDs to add and
// IDs to remove, already disjoint by the time they reach the repository.
type EnrollmentChange struct {
	ToAdd    []string `json:"to_add"`
	ToRemove []string `json:"to_remove"`
}

type CourseStats struct {
	FolderCount     int64     `json:"folder_count"`
	FileCount       int64     `json:"file_count"`
	EnrollmentCount int64     `json:"enrollment_count"`
	LastUploadAt    time.Time `json:"last_upload_at"`
}
