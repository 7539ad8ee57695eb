package familiar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomizeValueStaysWithinVariance(t *testing.T) {
	rolls := []float64{0, 0.25, 0.5, 0.75, 0.999}
	for _, factor := range []float64{0.05, 0.15, 0.85, 0.95} {
		for _, roll := range rolls {
			r := roll
			got := RandomizeValue(4, factor, func() float64 { return r })
			v, ok := got.(float64)
			require.True(t, ok, "numeric values must randomize to float64")
			require.LessOrEqual(t, math.Abs(v-4), 4*(1-factor)+1e-9,
				"factor %.2f roll %.3f out of variance window", factor, roll)
		}
	}
}

func TestRandomizeValueCenteredAtMidRoll(t *testing.T) {
	got := RandomizeValue(1.2, 0.9, func() float64 { return 0.5 })
	require.InDelta(t, 1.2, got.(float64), 1e-9)
}

func TestRandomizeValuePassesStringsThrough(t *testing.T) {
	got := RandomizeValue("wings", 0.9, func() float64 { return 0.1 })
	require.Equal(t, "wings", got)
}

func TestControlledFactorTighterThanUncontrolled(t *testing.T) {
	// Controlled mutations vary the value far less than uncontrolled ones.
	controlled := RandomizeValue(100.0, ControlledFactorMin, func() float64 { return 1 }).(float64)
	uncontrolled := RandomizeValue(100.0, UncontrolledFactorMax, func() float64 { return 1 }).(float64)
	require.Less(t, math.Abs(controlled-100), math.Abs(uncontrolled-100))
}
