package validator

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title string `json:"title" validate:"required,content_title"`
	Code  string `json:"code" validate:"required,course_code"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title *string `json:"title" validate:"omitempty,content_title"`
	Code  *string `json:"code" validate:"omitempty,course_code"`
}

// FolderCreateRequest represents the request structure for creating folders
type FolderCreateRequest struct {
	Title          string  `json:"title" validate:"required,content_title"`
	CourseID       string  `json:"course_id" validate:"required,uuid4"`
	ParentFolderID *string `json:"parent_folder_id" validate:"omitempty,uuid4"`
}

// FolderUpdateRequest renames a folder; placement is immutable
type FolderUpdateRequest struct {
	Title string `json:"title" validate:"required,content_title"`
}

// FileCreateRequest carries the metadata of an upload. The handler
// fills Filename from the multipart part; the title defaults to the
// filename when omitted.
type FileCreateRequest struct {
	Title    string  `json:"title" validate:"omitempty,content_title"`
	CourseID string  `json:"course_id" validate:"required,uuid4"`
	FolderID *string `json:"folder_id" validate:"omitempty,uuid4"`
	Filename string  `json:"filename" validate:"required,max=255"`
}

// FileUpdateRequest renames a file; the stored object never moves
type FileUpdateRequest struct {
	Title string `json:"title" validate:"required,content_title"`
}

// EnrollmentSyncRequest is the differential payload of the enrollment
// editor: which courses to join and which to leave in one shot. The
// client computes the diff; the server applies it verbatim.
type EnrollmentSyncRequest struct {
	ToAdd    []string `json:"toAdd" validate:"omitempty,max=500,dive,uuid4"`
	ToRemove []string `json:"toRemove" validate:"omitempty,max=500,dive,uuid4"`
}

// ReadStatusBatchRequest asks which of the given files the caller has read
type ReadStatusBatchRequest struct {
	FileIDs []string `json:"file_ids" validate:"required,min=1,max=500,dive,uuid4"`
}
