package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-content-service/internal/services"
	"github.com/SAP-F-2025/course-content-service/internal/utils"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

// maxUploadSize caps multipart uploads at 512 MiB
const maxUploadSize = 512 << 20

type FileHandler struct {
	BaseHandler
	contentService    services.ContentService
	downloadService   services.DownloadService
	readStatusService services.ReadStatusService
	validator         *validator.Validator
}

func NewFileHandler(
	contentService services.ContentService,
	downloadService services.DownloadService,
	readStatusService services.ReadStatusService,
	validator *validator.Validator,
	logger utils.Logger,
) *FileHandler {
	return &FileHandler{
		BaseHandler:       NewBaseHandler(logger),
		contentService:    contentService,
		downloadService:   downloadService,
		readStatusService: readStatusService,
		validator:         validator,
	}
}

// CreateFile uploads a new file
// @Summary Upload file
// @Description Uploads a file via multipart form. Fields: file (required), course_id (required), folder_id, title.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param course_id formData string true "Course ID"
// @Param folder_id formData string false "Folder ID"
// @Param title formData string false "Display title, defaults to the upload filename"
// @Success 201 {object} models.File
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /files [post]
func (h *FileHandler) CreateFile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if c.Request.ContentLength > maxUploadSize {
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "Upload too large", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing file part", err)
		return
	}

	req := services.CreateFileRequest{
		Title:    strings.TrimSpace(c.PostForm("title")),
		CourseID: c.PostForm("course_id"),
		Filename: fileHeader.Filename,
	}
	if folderID := c.PostForm("folder_id"); folderID != "" {
		req.FolderID = &folderID
	}

	h.LogRequest(c, "Uploading file", "course_id", req.CourseID, "filename", req.Filename, "size", fileHeader.Size)

	content, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read upload", err)
		return
	}
	defer content.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	file, err := h.contentService.CreateFile(c.Request.Context(), &req, content, fileHeader.Size, contentType, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

// GetFile retrieves a file with its read flag and sibling navigation
// @Summary Get file
// @Description Retrieves a file plus the caller's read flag and the previous/next siblings
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} services.FileDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /files/{id} [get]
func (h *FileHandler) GetFile(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	detail, err := h.contentService.GetFileDetail(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// RenameFile renames a file
// @Summary Rename file
// @Description Renames a file; the stored object never moves
// @Tags files
// @Accept json
// @Produce json
// @Param id path string true "File ID"
// @Param file body services.UpdateFileRequest true "New title"
// @Success 200 {object} models.File
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /files/{id} [put]
func (h *FileHandler) RenameFile(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Renaming file", "file_id", id)

	file, err := h.contentService.RenameFile(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

// DeleteFile deletes a file
// @Summary Delete file
// @Description Deletes a file record and its read marks
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /files/{id} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting file", "file_id", id)

	if err := h.contentService.DeleteFile(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDownloadLink issues a short-lived signed download URL
// @Summary Get download link
// @Description Issues a presigned URL valid for 60 seconds with attachment disposition
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} services.DownloadLink
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /files/{id}/download [get]
func (h *FileHandler) GetDownloadLink(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	link, err := h.downloadService.IssueDownloadLink(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// MarkRead marks a file as read for the caller
// @Summary Mark file read
// @Description Marks the file read for the caller; marking twice is a no-op
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /files/{id}/mark-read [post]
func (h *FileHandler) MarkRead(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.readStatusService.MarkRead(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "File marked as read"})
}

// MarkUnread clears the caller's read mark on a file
// @Summary Mark file unread
// @Description Clears the read mark; clearing an absent mark is a no-op
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /files/{id}/mark-unread [post]
func (h *FileHandler) MarkUnread(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.readStatusService.MarkUnread(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "File marked as unread"})
}

// GetReadStatus answers which of the requested files the caller read
// @Summary Get read status
// @Description Returns the subset of the given file IDs the caller has marked read
// @Tags files
// @Produce json
// @Param fileIds query string true "Comma-separated file IDs"
// @Success 200 {object} services.ReadStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /files/read-status [get]
func (h *FileHandler) GetReadStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	raw := c.Query("fileIds")
	if raw == "" {
		h.RespondWithError(c, http.StatusBadRequest, "Query parameter 'fileIds' is required", nil)
		return
	}

	var fileIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			fileIDs = append(fileIDs, id)
		}
	}

	req := services.ReadStatusBatchRequest{FileIDs: fileIDs}
	status, err := h.readStatusService.GetReadStatus(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
