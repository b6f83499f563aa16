package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store persists audit rows. Satisfied by repository.AuditLogRepository.
type Store interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}

// Entry is one auditable event. Old/New are entity snapshots serialized at
// record time; Metadata is free-form operation context.
type Entry struct {
	ActorID    *uuid.UUID
	SessionID  *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	IP         string
	UserAgent  string
	Old        any
	New        any
	Metadata   map[string]any
}

// Recorder writes the audit trail. Failures are swallowed: the trail must
// never block a user-facing operation, so errors go to the server log only.
type Recorder struct {
	store Store
	log   *slog.Logger
}

func NewRecorder(store Store, log *slog.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	row := &model.AuditLog{
		ActorID:    e.ActorID,
		SessionID:  e.SessionID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
	}

	row.OldState = marshal(r.log, e.Old)
	row.NewState = marshal(r.log, e.New)
	if len(e.Metadata) > 0 {
		row.Metadata = marshal(r.log, e.Metadata)
	}

	if err := r.store.Create(ctx, row); err != nil {
		r.log.Error("audit write failed",
			"action", e.Action, "entity_type", e.EntityType, "err", err)
	}
}

// FromRequest seeds an Entry with the actor, session and request metadata
// that the auth middleware put on the gin context.
func FromRequest(c *gin.Context) Entry {
	e := Entry{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if v, ok := c.Get(middleware.UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			e.ActorID = &id
		}
	}
	if v, ok := c.Get(middleware.SessionIDKey); ok {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			e.SessionID = &id
		}
	}
	return e
}

func marshal(log *slog.Logger, v any) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("audit snapshot marshal failed", "err", err)
		return nil
	}
	return data
}
