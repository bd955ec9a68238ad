package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("audit log not found")

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

func (a Action) Valid() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

type Entry struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID    string          `gorm:"column:actor_id;size:32;not null;index:idx_audit_actor" json:"userId"`
	Action     Action          `gorm:"column:action;size:8;not null" json:"action"`
	EntityType string          `gorm:"column:entity_type;size:32;not null;index:idx_audit_entity" json:"collectionName"`
	EntityID   string          `gorm:"column:entity_id;size:32;not null;index:idx_audit_entity" json:"documentId"`
	Diff       json.RawMessage `gorm:"column:diff;type:text;serializer:json" json:"changes"`
	Timestamp  time.Time       `gorm:"column:timestamp;not null;index:idx_audit_timestamp" json:"timestamp"`
}

func (Entry) TableName() string { return "audit_logs" }

// NewEntry builds an entry with diff encoded as JSON. A diff that cannot be
// encoded is stored as null.
func NewEntry(actorID string, action Action, entityType, entityID string, diff any, at time.Time) *Entry {
	raw, err := json.Marshal(diff)
	if err != nil {
		raw = []byte("null")
	}
	return &Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Diff:       raw,
		Timestamp:  at.UTC(),
	}
}

// Filter narrows List; zero fields do not filter. Page is 1-based.
type Filter struct {
	ActorID    string
	EntityType string
	Action     Action
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// List returns matching entries newest first and the total match count.
	List(ctx context.Context, f Filter) ([]Entry, int64, error)
	GetByID(ctx context.Context, id uint64) (*Entry, error)
}
