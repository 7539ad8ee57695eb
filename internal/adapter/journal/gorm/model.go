package gormjournal

import "time"

// FamiliarEvent is the journal row. Payload is stored as JSONB.
type FamiliarEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	FamiliarID string    `gorm:"index;size:128;not null"`
	Type       string    `gorm:"size:64;not null"`
	OccurredAt time.Time `gorm:"index;not null"`
	Payload    []byte    `gorm:"type:jsonb"`
}

func (FamiliarEvent) TableName() string { return "familiar_events" }
