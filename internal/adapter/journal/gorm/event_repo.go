package gormjournal

import (
	"context"
	"encoding/json"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepo persists the familiar event journal in Postgres.
type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, familiarID string, events []familiar.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]FamiliarEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, FamiliarEvent{
			FamiliarID: familiarID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r EventRepo) ListByFamiliarID(ctx context.Context, familiarID string, limit int) ([]familiar.Event, error) {
	rows := []FamiliarEvent{}
	query := r.db.WithContext(ctx).
		Where(&FamiliarEvent{FamiliarID: familiarID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]familiar.Event, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, familiar.Event{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
