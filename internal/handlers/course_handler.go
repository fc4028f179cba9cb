package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-content-service/internal/services"
	"github.com/SAP-F-2025/course-content-service/internal/utils"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	contentService    services.ContentService
	enrollmentService services.EnrollmentService
	validator         *validator.Validator
}

func NewCourseHandler(
	contentService services.ContentService,
	enrollmentService services.EnrollmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       NewBaseHandler(logger),
		contentService:    contentService,
		enrollmentService: enrollmentService,
		validator:         validator,
	}
}

// ListCourses lists all courses
// @Summary List courses
// @Description Lists all courses as summaries, alphabetical by title
// @Tags courses
// @Produce json
// @Success 200 {array} repositories.CourseSummary
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	summaries, err := h.contentService.ListCourses(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// CreateCourse creates a new course
// @Summary Create course
// @Description Creates a new course with a unique code
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating course", "title", req.Title)

	course, err := h.contentService.CreateCourse(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// UpdateCourse updates a course's title or code
// @Summary Update course
// @Description Updates a course's title and/or code
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body services.UpdateCourseRequest true "Course update data"
// @Success 200 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	course, err := h.contentService.UpdateCourse(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course and everything under it
// @Summary Delete course
// @Description Deletes a course, its folders, files and enrollments
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.contentService.DeleteCourse(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListChildren lists the direct children of a course or of one of its
// folders
// @Summary List course children
// @Description Lists direct child folders and files. With folderId, lists that folder's children; otherwise the course root.
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Param folderId query string false "Folder ID"
// @Success 200 {object} services.CourseContentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/children [get]
func (h *CourseHandler) ListChildren(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if folderID := c.Query("folderId"); folderID != "" {
		content, err := h.contentService.GetFolderContent(c.Request.Context(), folderID, actor)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		if content.Folder.CourseID != id {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: "Folder not found"})
			return
		}
		c.JSON(http.StatusOK, content)
		return
	}

	content, err := h.contentService.GetCourseContent(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// GetRoster lists the enrolled members of a course
// @Summary Get course roster
// @Description Lists enrolled members with profiles where known
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} services.RosterEntry
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/roster [get]
func (h *CourseHandler) GetRoster(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	entries, err := h.enrollmentService.Roster(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
