package audit

import (
	"context"
	"time"

	"github.com/oncentra/registry/pkg/common/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is one security-relevant occurrence: a workflow mutation, a
// compliance violation, a cache invalidation.
type Event struct {
	ID        int64                  `json:"id"`
	Actor     string                 `json:"actor"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity,omitempty"`
	EntityID  string                 `json:"entity_id,omitempty"`
	Detail    map[string]interface{} `json:"detail,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type eventModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Actor     string `gorm:"index"`
	Action    string `gorm:"index"`
	Entity    string
	EntityID  string            `gorm:"index"`
	Detail    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"index"`
}

func (eventModel) TableName() string { return "audit_events" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&eventModel{})
}

// RecordEvent appends an audit row. Audit failures are logged, never
// propagated; an audit miss must not fail the triggering request.
func (r *Repository) RecordEvent(ctx context.Context, actor, action, entity, entityID string, detail map[string]interface{}) {
	if actor == "" {
		actor = "system"
	}
	row := eventModel{
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    datatypes.JSONMap(detail),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"action": action,
			"entity": entity,
		}).Error("failed to append audit event")
	}
}

func (r *Repository) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []eventModel
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, Event{
			ID:        row.ID,
			Actor:     row.Actor,
			Action:    row.Action,
			Entity:    row.Entity,
			EntityID:  row.EntityID,
			Detail:    map[string]interface{}(row.Detail),
			CreatedAt: row.CreatedAt,
		})
	}
	return events, nil
}
