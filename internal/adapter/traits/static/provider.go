// Package statictraits generates mutation options from a JSON catalog on
// disk. The catalog maps category names to option lists; the provider filters
// them against the trait context the engine hands over.
package statictraits

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

type Provider struct {
	Path string
}

type catalog struct {
	Options map[string][]familiar.TraitOption `json:"options"`
}

func (p Provider) Options(_ context.Context, tc ports.TraitContext) ([]familiar.TraitOption, error) {
	b, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read trait catalog: %w", err)
	}
	var cat catalog
	if err := json.Unmarshal(b, &cat); err != nil {
		return nil, fmt.Errorf("decode trait catalog: %w", err)
	}

	recent := make(map[familiar.Category]bool, len(tc.RecentCategories))
	for _, c := range tc.RecentCategories {
		recent[c] = true
	}

	// Prefer categories the familiar has not mutated recently so option sets
	// stay varied across consecutive cycles.
	out := make([]familiar.TraitOption, 0, familiar.MaxTraitOptions)
	for _, pass := range []bool{false, true} {
		for _, category := range familiar.Categories {
			if recent[category] != pass {
				continue
			}
			for _, opt := range cat.Options[string(category)] {
				if !familiar.KnownCategory(opt.Category) {
					continue
				}
				out = append(out, opt)
				if len(out) == familiar.MaxTraitOptions {
					return out, nil
				}
			}
		}
	}
	return out, nil
}
