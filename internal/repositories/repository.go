package repositories

import "context"

// Repository aggregates all repository interfaces behind one handle
type Repository interface {
	// Content tree
	Course() CourseRepository
	Folder() FolderRepository
	File() FileRepository

	// Membership and read overlay
	Enrollment() EnrollmentRepository
	ReadMark() ReadMarkRepository

	// User profiles
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
