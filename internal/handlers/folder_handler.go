package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-content-service/internal/services"
	"github.com/SAP-F-2025/course-content-service/internal/utils"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

type FolderHandler struct {
	BaseHandler
	contentService services.ContentService
	validator      *validator.Validator
}

func NewFolderHandler(
	contentService services.ContentService,
	validator *validator.Validator,
	logger utils.Logger,
) *FolderHandler {
	return &FolderHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
		validator:      validator,
	}
}

// CreateFolder creates a folder in a course tree
// @Summary Create folder
// @Description Creates a folder at the course root or under a parent folder of the same course
// @Tags folders
// @Accept json
// @Produce json
// @Param folder body services.CreateFolderRequest true "Folder data"
// @Success 201 {object} models.Folder
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /folders [post]
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	var req services.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating folder", "course_id", req.CourseID, "title", req.Title)

	folder, err := h.contentService.CreateFolder(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// RenameFolder renames a folder
// @Summary Rename folder
// @Description Renames a folder; its placement never changes
// @Tags folders
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Param folder body services.UpdateFolderRequest true "New title"
// @Success 200 {object} models.Folder
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /folders/{id} [put]
func (h *FolderHandler) RenameFolder(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Renaming folder", "folder_id", id)

	folder, err := h.contentService.RenameFolder(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder deletes a folder subtree
// @Summary Delete folder
// @Description Deletes a folder, its descendant folders and all contained files
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /folders/{id} [delete]
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting folder", "folder_id", id)

	if err := h.contentService.DeleteFolder(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFolderContent lists a folder's direct children
// @Summary Get folder content
// @Description Lists the folder with its direct subfolders and files
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} services.FolderContentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /folders/{id} [get]
func (h *FolderHandler) GetFolderContent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	content, err := h.contentService.GetFolderContent(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}
