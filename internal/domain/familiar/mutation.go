package familiar

import "time"

type MutationType string

const (
	MutationControlled   MutationType = "controlled"
	MutationUncontrolled MutationType = "uncontrolled"
)

// MutationTrait carries one visual trait. Value is a number for legs/size and
// a string for appendage/pattern/color. RandomnessFactor records how tightly
// the value was controlled at generation time (1 = fully controlled).
type MutationTrait struct {
	Category         Category `json:"category"`
	Value            any      `json:"value"`
	RandomnessFactor float64  `json:"randomness_factor"`
}

// MutationData is immutable once appended to a familiar.
type MutationData struct {
	ID          string          `json:"id"`
	Type        MutationType    `json:"type"`
	Traits      []MutationTrait `json:"traits"`
	StatEffects map[string]int  `json:"stat_effects"`
	Timestamp   time.Time       `json:"timestamp"`
}

type TraitOption struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Value    any      `json:"value"`
}

// ChoiceSession is the ephemeral state between a mutation trigger and the
// player's choice. Single-use, expires after ChoiceSessionTTL.
type ChoiceSession struct {
	SessionID  string        `json:"session_id"`
	FamiliarID string        `json:"familiar_id"`
	Options    []TraitOption `json:"options"`
	CreatedAt  time.Time     `json:"created_at"`
}

// RandomizeValue applies a centered random offset of magnitude
// value*(1-factor) to numeric values. Non-numeric values pass through.
// Numeric results are always float64 so stored and fresh traits look alike
// after a JSON round trip.
func RandomizeValue(value any, factor float64, roll func() float64) any {
	v, ok := asFloat(value)
	if !ok {
		return value
	}
	variance := v * (1 - factor)
	return v + (roll()*2-1)*variance
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}
