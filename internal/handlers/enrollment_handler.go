package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-content-service/internal/services"
	"github.com/SAP-F-2025/course-content-service/internal/utils"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	validator         *validator.Validator
}

func NewEnrollmentHandler(
	enrollmentService services.EnrollmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
		validator:         validator,
	}
}

// ListMine lists the caller's enrollments
// @Summary List own enrollments
// @Description Lists the caller's enrollments with course metadata, newest first
// @Tags enrollments
// @Produce json
// @Success 200 {array} models.Enrollment
// @Failure 401 {object} ErrorResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// Sync applies a differential update to the caller's own enrollments
// @Summary Sync enrollments
// @Description Adds and removes the caller's course enrollments in one request. Both lists are optional; re-adding an enrolled course and removing an absent one are no-ops.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param sync body services.SyncEnrollmentsRequest true "Differential course-set update"
// @Success 200 {object} services.SyncEnrollmentsResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) Sync(c *gin.Context) {
	var req services.SyncEnrollmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Syncing enrollments",
		"to_add", len(req.ToAdd), "to_remove", len(req.ToRemove))

	result, err := h.enrollmentService.Sync(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
