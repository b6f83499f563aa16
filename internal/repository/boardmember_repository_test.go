package repository_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBoardMemberRepository_Upsert_CreatesMembership(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewBoardMemberRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "board_members" WHERE board_id = .*`).
		WithArgs(boardID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"board_id", "user_id", "role", "created_at"}))
	mock.ExpectExec(`INSERT INTO "board_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := memberRepo.Upsert(context.Background(), boardID, userID, "viewer")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardMemberRepository_Upsert_UpdatesExistingRole(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	memberRepo := repository.NewBoardMemberRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	// An existing (board, user) pair gets its role replaced, not a second row.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "board_members" WHERE board_id = .*`).
		WithArgs(boardID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"board_id", "user_id", "role", "created_at"}).
			AddRow(boardID.String(), userID.String(), "viewer", time.Now()))
	mock.ExpectExec(`UPDATE "board_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := memberRepo.Upsert(context.Background(), boardID, userID, "editor")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
