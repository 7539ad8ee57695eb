package familiar

import "time"

type Biome string

const (
	BiomeForest   Biome = "forest"
	BiomeDesert   Biome = "desert"
	BiomeTundra   Biome = "tundra"
	BiomeSwamp    Biome = "swamp"
	BiomeVolcanic Biome = "volcanic"
)

var Biomes = []Biome{BiomeForest, BiomeDesert, BiomeTundra, BiomeSwamp, BiomeVolcanic}

// Familiar is the per-user creature aggregate. NeglectWarning is derived from
// CareMeter and must only change together with a meter write.
type Familiar struct {
	UserID          string         `json:"user_id"`
	Age             int            `json:"age"`
	CareMeter       int            `json:"care_meter"`
	EvolutionPoints int            `json:"evolution_points"`
	Mutations       []MutationData `json:"mutations"`
	Stats           Stats          `json:"stats"`
	Biome           Biome          `json:"biome"`
	LastCareTime    time.Time      `json:"last_care_time"`
	CreatedAt       time.Time      `json:"created_at"`
	PrivacyOptIn    bool           `json:"privacy_opt_in"`
	NeglectWarning  bool           `json:"neglect_warning"`
}

func New(userID string, biome Biome, now time.Time) Familiar {
	return Familiar{
		UserID:       userID,
		CareMeter:    CareMeterMax,
		Stats:        DefaultStats(),
		Biome:        biome,
		LastCareTime: now,
		CreatedAt:    now,
	}
}

func (f Familiar) CategoryCount(category Category) int {
	count := 0
	for _, m := range f.Mutations {
		for _, t := range m.Traits {
			if t.Category == category {
				count++
			}
		}
	}
	return count
}

// PresentCategories returns the distinct mutation categories on the familiar,
// in first-appearance order.
func (f Familiar) PresentCategories() []Category {
	seen := map[Category]bool{}
	out := []Category{}
	for _, m := range f.Mutations {
		for _, t := range m.Traits {
			if !seen[t.Category] {
				seen[t.Category] = true
				out = append(out, t.Category)
			}
		}
	}
	return out
}

// RecentCategories returns the categories of the last n mutations, newest first.
func (f Familiar) RecentCategories(n int) []Category {
	out := []Category{}
	for i := len(f.Mutations) - 1; i >= 0 && len(out) < n; i-- {
		for _, t := range f.Mutations[i].Traits {
			out = append(out, t.Category)
		}
	}
	return out
}

func RandomBiome(roll func() float64) Biome {
	return Biomes[randIndex(roll, len(Biomes))]
}

// RotateBiome picks a uniformly-random biome different from current.
func RotateBiome(current Biome, roll func() float64) Biome {
	others := make([]Biome, 0, len(Biomes)-1)
	for _, b := range Biomes {
		if b != current {
			others = append(others, b)
		}
	}
	return others[randIndex(roll, len(others))]
}

func randIndex(roll func() float64, n int) int {
	i := int(roll() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
