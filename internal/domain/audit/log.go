// Package audit records state changes of business records.
// Every stage or status transition leaves an entry with the old and new
// values, so the pipeline history can be reconstructed after the fact.
package audit

import (
	"context"
	"time"

	"fatturo/internal/core/id"
)

// Action identifies what happened to a record.
type Action string

const (
	ActionCreated          Action = "created"
	ActionUpdated          Action = "updated"
	ActionDeleted          Action = "deleted"
	ActionStageTransition  Action = "stage_transition"
	ActionStatusTransition Action = "status_transition"
)

// Entry is a single change-log record.
type Entry struct {
	ID         id.ID     `db:"id" json:"id"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityID   id.ID     `db:"entity_id" json:"entityId"`
	Action     Action    `db:"action" json:"action"`
	UserID     string    `db:"user_id" json:"userId,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	// Changes is a JSON document with old/new field values.
	// Large payloads are stored compressed (see storage layer).
	Changes []byte `db:"changes" json:"changes,omitempty"`
}

// NewEntry creates an entry for the given record change.
func NewEntry(entityType string, entityID id.ID, action Action, userID string, changes []byte, now time.Time) *Entry {
	return &Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		OccurredAt: now,
		Changes:    changes,
	}
}

// Recorder persists change-log entries.
// Recording is best effort: services log failures but never fail the
// business operation because of the audit trail.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error

	// ListByEntity returns entries for one record, newest first.
	ListByEntity(ctx context.Context, entityType string, entityID id.ID, limit int) ([]*Entry, error)
}
