package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/audit"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// captureAuditStore collects audit rows so tests can assert what was recorded.
type captureAuditStore struct {
	entries []*model.AuditLog
}

func (s *captureAuditStore) Create(_ context.Context, entry *model.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func setupHandlerDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	return gormDB, mock
}

func setupMemberTest(t *testing.T, actorID uuid.UUID) (*gin.Engine, *MockUserRepository, sqlmock.Sqlmock, *captureAuditStore) {
	gin.SetMode(gin.TestMode)
	gormDB, dbMock := setupHandlerDB(t)

	mockUsers := new(MockUserRepository)
	store := &captureAuditStore{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := audit.NewRecorder(store, log)

	boardRepo := repository.NewBoardRepository(gormDB)
	memberRepo := repository.NewBoardMemberRepository(gormDB)
	listRepo := repository.NewListRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)

	resolver := access.NewResolver(boardRepo, memberRepo, listRepo, cardRepo)
	base := handler.NewBase(mockUsers, resolver, recorder)
	memberHandler := handler.NewMemberHandler(base, boardRepo, memberRepo, notificationRepo)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
		c.Next()
	})
	r.POST("/boards/:id/members", memberHandler.Invite)

	return r, mockUsers, dbMock, store
}

func expectBoardSelect(dbMock sqlmock.Sqlmock, boardID, ownerID uuid.UUID) {
	dbMock.ExpectQuery(`SELECT .* FROM "boards" WHERE id = .*`).
		WithArgs(boardID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "owner_id", "archived", "created_at", "updated_at"}).
			AddRow(boardID.String(), "Roadmap", "", ownerID.String(), false, time.Now(), time.Now()))
}

func expectMemberUpsert(dbMock sqlmock.Sqlmock, boardID, userID uuid.UUID) {
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`SELECT .* FROM "board_members" WHERE board_id = .*`).
		WithArgs(boardID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"board_id", "user_id", "role", "created_at"}))
	dbMock.ExpectExec(`INSERT INTO "board_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()
}

func TestInviteMember_Success(t *testing.T) {
	ownerID := uuid.New()
	router, mockUsers, dbMock, store := setupMemberTest(t, ownerID)

	boardID := uuid.New()
	invitee := &model.User{ID: uuid.New(), Username: "casey", Name: "Casey", SystemRole: model.SystemRoleUser}
	owner := &model.User{ID: ownerID, Username: "owner", Name: "Owner", SystemRole: model.SystemRoleUser}

	mockUsers.On("GetByID", mock.Anything, ownerID).Return(owner, nil)
	mockUsers.On("FindByUsername", mock.Anything, "casey").Return(invitee, nil)

	expectBoardSelect(dbMock, boardID, ownerID)
	expectMemberUpsert(dbMock, boardID, invitee.ID)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	dbMock.ExpectCommit()

	resp := postJSON(router, "/boards/"+boardID.String()+"/members",
		handler.InviteMemberRequest{Username: "casey", Role: "editor"})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var body handler.MemberResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, invitee.ID.String(), body.UserID)
	assert.Equal(t, "casey", body.Username)
	assert.Equal(t, "editor", body.Role)

	assert.Len(t, store.entries, 1)
	assert.Equal(t, "invite", store.entries[0].Action)
	assert.Equal(t, "board_member", store.entries[0].EntityType)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestInviteMember_NotificationFailureStillRecordsAudit(t *testing.T) {
	ownerID := uuid.New()
	router, mockUsers, dbMock, store := setupMemberTest(t, ownerID)

	boardID := uuid.New()
	invitee := &model.User{ID: uuid.New(), Username: "casey", Name: "Casey", SystemRole: model.SystemRoleUser}
	owner := &model.User{ID: ownerID, Username: "owner", Name: "Owner", SystemRole: model.SystemRoleUser}

	mockUsers.On("GetByID", mock.Anything, ownerID).Return(owner, nil)
	mockUsers.On("FindByUsername", mock.Anything, "casey").Return(invitee, nil)

	expectBoardSelect(dbMock, boardID, ownerID)
	expectMemberUpsert(dbMock, boardID, invitee.ID)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnError(errors.New("connection reset"))
	dbMock.ExpectRollback()

	resp := postJSON(router, "/boards/"+boardID.String()+"/members",
		handler.InviteMemberRequest{Username: "casey", Role: "editor"})

	// The membership committed before the notification failed: the response
	// keeps its normal shape and the mutation still lands in the audit trail.
	assert.Equal(t, http.StatusCreated, resp.Code)

	var body handler.MemberResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, invitee.ID.String(), body.UserID)
	assert.Equal(t, "editor", body.Role)

	assert.Len(t, store.entries, 1)
	assert.Equal(t, "invite", store.entries[0].Action)
	assert.Equal(t, "board_member", store.entries[0].EntityType)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
