package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"taskboard/internal/audit"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type captureStore struct {
	rows []*model.AuditLog
	err  error
}

func (s *captureStore) Create(_ context.Context, row *model.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, row)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecord_WritesRow(t *testing.T) {
	store := &captureStore{}
	recorder := audit.NewRecorder(store, discardLogger())

	actorID := uuid.New()
	entityID := uuid.New()
	recorder.Record(context.Background(), audit.Entry{
		ActorID:    &actorID,
		Action:     "update",
		EntityType: "card",
		EntityID:   &entityID,
		Old:        map[string]any{"title": "before"},
		New:        map[string]any{"title": "after"},
		Metadata:   map[string]any{"list_id": "abc"},
	})

	assert.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, "update", row.Action)
	assert.Equal(t, "card", row.EntityType)
	assert.Equal(t, &actorID, row.ActorID)
	assert.JSONEq(t, `{"title":"before"}`, string(row.OldState))
	assert.JSONEq(t, `{"title":"after"}`, string(row.NewState))
	assert.JSONEq(t, `{"list_id":"abc"}`, string(row.Metadata))
}

func TestRecord_NilSnapshotsStayNil(t *testing.T) {
	store := &captureStore{}
	recorder := audit.NewRecorder(store, discardLogger())

	recorder.Record(context.Background(), audit.Entry{
		Action:     "scan",
		EntityType: "card_overdue",
	})

	assert.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Nil(t, row.ActorID)
	assert.Empty(t, row.OldState)
	assert.Empty(t, row.NewState)
	assert.Empty(t, row.Metadata)
}

// A failing store must never surface to the caller: the audit trail is
// best-effort by contract.
func TestRecord_SwallowsStoreError(t *testing.T) {
	store := &captureStore{err: errors.New("db down")}
	recorder := audit.NewRecorder(store, discardLogger())

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), audit.Entry{
			Action:     "create",
			EntityType: "board",
		})
	})
}

func TestFromRequest_ReadsContextKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/boards", nil)
	c.Request.Header.Set("User-Agent", "test-agent")

	userID := uuid.New()
	sessionID := uuid.New()
	c.Set(middleware.UserIDKey, userID)
	c.Set(middleware.SessionIDKey, sessionID)

	entry := audit.FromRequest(c)

	assert.Equal(t, &userID, entry.ActorID)
	assert.Equal(t, &sessionID, entry.SessionID)
	assert.Equal(t, "test-agent", entry.UserAgent)
}

func TestFromRequest_AnonymousRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/health", nil)

	entry := audit.FromRequest(c)

	assert.Nil(t, entry.ActorID)
	assert.Nil(t, entry.SessionID)
}
