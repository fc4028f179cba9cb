package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-content-service/internal/models"
)

// UserRepository interface for locally materialized user profiles.
// Rows arrive through the identity lifecycle consumer; Upsert must be
// safe under event redelivery.
type UserRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

// UserDirectory resolves profiles from the identity provider when the
// local row has not been materialized yet.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}
