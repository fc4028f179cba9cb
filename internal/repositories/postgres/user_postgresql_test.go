package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/course-content-service/internal/models"
	"github.com/SAP-F-2025/course-content-service/internal/repositories"
)

func TestUserUpsertSurvivesRedelivery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserPostgreSQL(db)
	ctx := context.Background()

	user := &models.User{ID: "u-1", FullName: "Dana Vo", Email: "dana@example.edu"}
	require.NoError(t, repo.Upsert(ctx, nil, user))

	// Redelivered event with refreshed fields updates in place
	again := &models.User{ID: "u-1", FullName: "Dana T. Vo", Email: "dana@example.edu"}
	require.NoError(t, repo.Upsert(ctx, nil, again))

	got, err := repo.GetByID(ctx, nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana T. Vo", got.FullName)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserPostgreSQL(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, nil, &models.User{ID: "u-1", FullName: "Sam", Email: "sam@example.edu"}))

	got, err := repo.GetByEmail(ctx, nil, "sam@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	_, err = repo.GetByEmail(ctx, nil, "nobody@example.edu")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestUserExistsByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserPostgreSQL(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, nil, &models.User{ID: "u-1", FullName: "Sam", Email: "sam@example.edu"}))

	exists, err := repo.ExistsByID(ctx, nil, "u-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(ctx, nil, "u-404")
	require.NoError(t, err)
	assert.False(t, exists)
}
