package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestLabelRepository_AddToCard_Idempotent(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	labelRepo := repository.NewLabelRepository(gormDB)

	cardID := uuid.New()
	labelID := uuid.New()

	mock.ExpectExec(`INSERT INTO card_labels .* ON CONFLICT DO NOTHING`).
		WithArgs(cardID, labelID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, labelRepo.AddToCard(context.Background(), cardID, labelID))

	// Tagging the same pair again hits the conflict clause: no error, no row.
	mock.ExpectExec(`INSERT INTO card_labels .* ON CONFLICT DO NOTHING`).
		WithArgs(cardID, labelID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, labelRepo.AddToCard(context.Background(), cardID, labelID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelRepository_Create_DuplicateName(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	labelRepo := repository.NewLabelRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "labels"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	label := &model.Label{BoardID: uuid.New(), Name: "bug", Color: "#d73a4a"}
	err := labelRepo.Create(context.Background(), label)

	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
