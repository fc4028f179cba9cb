package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
	"github.com/SAP-F-2025/course-content-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/course-content-service/internal/services"
	"github.com/SAP-F-2025/course-content-service/internal/utils"
	"github.com/SAP-F-2025/course-content-service/internal/validator"
)

type HandlerManager struct {
	courseHandler     *CourseHandler
	folderHandler     *FolderHandler
	fileHandler       *FileHandler
	enrollmentHandler *EnrollmentHandler
	userHandler       *UserHandler
	authMiddleware    *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig casdoor.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		courseHandler:     NewCourseHandler(serviceManager.Content(), serviceManager.Enrollment(), validator, logger),
		folderHandler:     NewFolderHandler(serviceManager.Content(), validator, logger),
		fileHandler:       NewFileHandler(serviceManager.Content(), serviceManager.Download(), serviceManager.ReadStatus(), validator, logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), validator, logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Course routes
		courses := v1.Group("/courses")
		{
			// View routes - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id/children", hm.courseHandler.ListChildren)

			// Mutations and roster - admins only
			courses.POST("", adminOnly, hm.courseHandler.CreateCourse)
			courses.PUT("/:id", adminOnly, hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", adminOnly, hm.courseHandler.DeleteCourse)
			courses.GET("/:id/roster", adminOnly, hm.courseHandler.GetRoster)
		}

		// Folder routes
		folders := v1.Group("/folders")
		{
			folders.GET("/:id", hm.folderHandler.GetFolderContent)

			folders.POST("", adminOnly, hm.folderHandler.CreateFolder)
			folders.PUT("/:id", adminOnly, hm.folderHandler.RenameFolder)
			folders.DELETE("/:id", adminOnly, hm.folderHandler.DeleteFolder)
		}

		// File routes
		files := v1.Group("/files")
		{
			// The literal segment must be registered before :id routes
			files.GET("/read-status", hm.fileHandler.GetReadStatus)

			files.GET("/:id", hm.fileHandler.GetFile)
			files.GET("/:id/download", hm.fileHandler.GetDownloadLink)
			files.POST("/:id/mark-read", hm.fileHandler.MarkRead)
			files.POST("/:id/mark-unread", hm.fileHandler.MarkUnread)

			files.POST("", adminOnly, hm.fileHandler.CreateFile)
			files.PUT("/:id", adminOnly, hm.fileHandler.RenameFile)
			files.DELETE("/:id", adminOnly, hm.fileHandler.DeleteFile)
		}

		// Enrollment routes. Sync edits the caller's own course set, so
		// it carries no role gate.
		enrollments := v1.Group("/enrollments")
		{
			enrollments.GET("", hm.enrollmentHandler.ListMine)
			enrollments.POST("", hm.enrollmentHandler.Sync)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
			users.GET("", adminOnly, hm.userHandler.ListUsers)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "course-content-service",
		})
	})
}
