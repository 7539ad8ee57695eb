package familiar

// Fixed per-category option menus used when no external trait generator is
// wired. Option IDs are stable so clients may cache them.
var optionMenus = map[Category][]TraitOption{
	CategoryLegs: {
		{ID: "legs-2", Category: CategoryLegs, Label: "Two legs", Value: 2},
		{ID: "legs-4", Category: CategoryLegs, Label: "Four legs", Value: 4},
		{ID: "legs-6", Category: CategoryLegs, Label: "Six legs", Value: 6},
		{ID: "legs-8", Category: CategoryLegs, Label: "Eight legs", Value: 8},
	},
	CategorySize: {
		{ID: "size-tiny", Category: CategorySize, Label: "Tiny frame", Value: 0.5},
		{ID: "size-small", Category: CategorySize, Label: "Small frame", Value: 0.8},
		{ID: "size-large", Category: CategorySize, Label: "Large frame", Value: 1.2},
		{ID: "size-huge", Category: CategorySize, Label: "Hulking frame", Value: 1.5},
	},
	CategoryAppendage: {
		{ID: "appendage-wings", Category: CategoryAppendage, Label: "Wings", Value: "wings"},
		{ID: "appendage-tail", Category: CategoryAppendage, Label: "Tail", Value: "tail"},
		{ID: "appendage-horns", Category: CategoryAppendage, Label: "Horns", Value: "horns"},
		{ID: "appendage-tentacles", Category: CategoryAppendage, Label: "Tentacles", Value: "tentacles"},
	},
	CategoryPattern: {
		{ID: "pattern-scales", Category: CategoryPattern, Label: "Scales", Value: "scales"},
		{ID: "pattern-fur", Category: CategoryPattern, Label: "Fur", Value: "fur"},
		{ID: "pattern-spots", Category: CategoryPattern, Label: "Spots", Value: "spots"},
		{ID: "pattern-stripes", Category: CategoryPattern, Label: "Stripes", Value: "stripes"},
	},
	CategoryColor: {
		{ID: "color-crimson", Category: CategoryColor, Label: "Crimson", Value: "crimson"},
		{ID: "color-azure", Category: CategoryColor, Label: "Azure", Value: "azure"},
		{ID: "color-emerald", Category: CategoryColor, Label: "Emerald", Value: "emerald"},
		{ID: "color-obsidian", Category: CategoryColor, Label: "Obsidian", Value: "obsidian"},
		{ID: "color-ivory", Category: CategoryColor, Label: "Ivory", Value: "ivory"},
	},
}

func OptionsForCategory(c Category) []TraitOption {
	opts := optionMenus[c]
	out := make([]TraitOption, len(opts))
	copy(out, opts)
	return out
}
