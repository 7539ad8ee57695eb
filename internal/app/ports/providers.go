package ports

import (
	"context"

	"famiverse/internal/domain/familiar"
)

// ActivitySummary describes a user's public posting activity. Consumed only
// when the familiar's owner has opted in.
type ActivitySummary struct {
	Categories       map[string]int `json:"categories"`
	DominantCategory string         `json:"dominant_category"`
}

type ActivityProvider interface {
	Summary(ctx context.Context, userID string) (ActivitySummary, error)
}

// TraitContext is the narrow context handed to an external trait generator.
type TraitContext struct {
	Stats            familiar.Stats      `json:"stats"`
	RecentCategories []familiar.Category `json:"recent_mutation_categories"`
	Biome            familiar.Biome      `json:"biome"`
	ActivityCategory string              `json:"activity_category,omitempty"`
}

// TraitOptionProvider generates mutation options. Implementations may return
// richer descriptors; the engine consumes only id, category and value.
type TraitOptionProvider interface {
	Options(ctx context.Context, tc TraitContext) ([]familiar.TraitOption, error)
}
