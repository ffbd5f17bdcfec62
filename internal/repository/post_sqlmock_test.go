package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"penlight/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestPostRepository_CreateTranslatesDriverDuplicateError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "post"`)).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "idx_post_slug"`))
	mock.ExpectRollback()

	err := repo.Create(ctx, &models.Post{Title: "Dup", Slug: "dup", Pinned: true})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "DUPLICATE_SLUG"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetBySlugMapsRecordNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "post" WHERE slug = $1`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBySlug(ctx, "missing")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
