package familiar

import "sort"

type Category string

const (
	CategoryLegs      Category = "legs"
	CategorySize      Category = "size"
	CategoryAppendage Category = "appendage"
	CategoryPattern   Category = "pattern"
	CategoryColor     Category = "color"
)

// Categories is the closed set of mutation categories, in menu order.
var Categories = []Category{CategoryLegs, CategorySize, CategoryAppendage, CategoryPattern, CategoryColor}

func KnownCategory(c Category) bool {
	_, ok := compatibilityMatrix[c]
	return ok
}

type compatibilityRule struct {
	compatibleWith map[Category]bool
	maxInstances   int
}

// Leg restructurings and appendages are mutually exclusive; repeatable
// categories list themselves as compatible.
var compatibilityMatrix = map[Category]compatibilityRule{
	CategoryLegs: {
		compatibleWith: set(CategorySize, CategoryPattern, CategoryColor),
		maxInstances:   1,
	},
	CategorySize: {
		compatibleWith: set(CategoryLegs, CategoryAppendage, CategoryPattern, CategoryColor),
		maxInstances:   1,
	},
	CategoryAppendage: {
		compatibleWith: set(CategorySize, CategoryPattern, CategoryColor, CategoryAppendage),
		maxInstances:   2,
	},
	CategoryPattern: {
		compatibleWith: set(CategoryLegs, CategorySize, CategoryAppendage, CategoryColor, CategoryPattern),
		maxInstances:   2,
	},
	CategoryColor: {
		compatibleWith: set(CategoryLegs, CategorySize, CategoryAppendage, CategoryPattern, CategoryColor),
		maxInstances:   3,
	},
}

func set(cs ...Category) map[Category]bool {
	m := make(map[Category]bool, len(cs))
	for _, c := range cs {
		m[c] = true
	}
	return m
}

type CompatibilityResult struct {
	Compatible  bool       `json:"compatible"`
	Conflicts   []Category `json:"conflicts,omitempty"`
	Suggestions []Category `json:"suggestions,omitempty"`
}

// CheckCompatibility reports whether candidate may be added to f: candidate
// must be a known category, every category already present must be in the
// candidate's compatible set, and the candidate's instance count must be
// below its max. Suggestions are categories compatible with everything
// currently present, excluding categories already present.
func CheckCompatibility(f Familiar, candidate Category) CompatibilityResult {
	rule, ok := compatibilityMatrix[candidate]
	if !ok {
		return CompatibilityResult{Suggestions: CompatibleSuggestions(f)}
	}

	conflicts := []Category{}
	for _, present := range f.PresentCategories() {
		if !rule.compatibleWith[present] {
			conflicts = append(conflicts, present)
		}
	}
	if f.CategoryCount(candidate) >= rule.maxInstances {
		conflicts = append(conflicts, candidate)
	}
	if len(conflicts) > 0 {
		return CompatibilityResult{Conflicts: conflicts, Suggestions: CompatibleSuggestions(f)}
	}
	return CompatibilityResult{Compatible: true}
}

// CompatibleSuggestions lists categories whose compatible set covers every
// category present on f, excluding already-present ones. Sorted for
// deterministic output.
func CompatibleSuggestions(f Familiar) []Category {
	present := f.PresentCategories()
	presentSet := make(map[Category]bool, len(present))
	for _, c := range present {
		presentSet[c] = true
	}

	out := []Category{}
	for c, rule := range compatibilityMatrix {
		if presentSet[c] {
			continue
		}
		ok := true
		for _, p := range present {
			if !rule.compatibleWith[p] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
