package familiar

import (
	"fmt"
	"math"
)

// StatEffectsFor computes the numeric stat deltas a trait grants. The rules
// are deterministic given category and value; variance enters only through
// the value itself having been randomized.
func StatEffectsFor(category Category, value any) map[string]int {
	effects := map[string]int{}
	switch category {
	case CategoryLegs:
		legs := roundedInt(value)
		if legs <= 4 {
			effects[StatSpeed] = 10
			if legs == 2 {
				effects[StatAgility] = 15
			} else {
				effects[StatAgility] = 10
			}
		} else {
			effects[StatSpeed] = -5
			effects[StatAgility] = 5
		}
	case CategorySize:
		scale, _ := asFloat(value)
		if scale > 1.0 {
			effects[StatAttack] = 20
			effects[StatDefense] = 15
			effects[StatSpeed] = -10
		} else {
			effects[StatAttack] = -10
			effects[StatDefense] = -5
			effects[StatSpeed] = 15
			effects[StatAgility] = 10
		}
	case CategoryAppendage:
		switch asString(value) {
		case "wings":
			effects[StatSpeed] = 20
			effects[StatAgility] = 15
		case "tail":
			effects[StatAgility] = 10
			effects[StatDefense] = 5
		case "horns":
			effects[StatAttack] = 15
			effects[StatDefense] = 10
		case "tentacles":
			effects[StatAgility] = 12
			effects[StatAttack] = 8
		}
	case CategoryPattern:
		switch asString(value) {
		case "scales":
			effects[StatDefense] = 15
		case "fur":
			effects[StatDefense] = 10
			effects[StatEnergy] = 5
		case "spots":
			effects[StatStealth] = 10
		case "stripes":
			effects[StatStealth] = 12
			effects[StatVision] = 5
		}
	case CategoryColor:
		// Cosmetic only.
		effects[StatHappiness] = 5
	}
	return effects
}

func roundedInt(value any) int {
	f, ok := asFloat(value)
	if !ok {
		return 0
	}
	return int(math.Round(f))
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}
