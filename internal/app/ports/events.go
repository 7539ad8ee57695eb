package ports

import (
	"context"

	"famiverse/internal/domain/familiar"
)

type EventRepository interface {
	Append(ctx context.Context, familiarID string, events []familiar.Event) error
	ListByFamiliarID(ctx context.Context, familiarID string, limit int) ([]familiar.Event, error)
}
