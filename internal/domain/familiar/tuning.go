package familiar

import "time"

const (
	CareMeterMax     = 100
	StatMax          = 100
	NeglectThreshold = 20
	DecayPerHour     = 5

	MutationCost = 100

	RemovalGrace = 24 * time.Hour
	ArchiveTTL   = 30 * 24 * time.Hour

	ChoiceSessionTTL    = 300 * time.Second
	DefaultCareCooldown = 5 * time.Minute

	CareDecayPeriod = time.Hour
	CycleDelayMin   = 30 * time.Minute
	CycleDelayMax   = 4 * time.Hour

	UncontrolledMutationChance = 0.20
	BiomeRotateChance          = 0.15
	BiomeRotateAgeEvery        = 10

	ControlledFactorMin   = 0.85
	ControlledFactorMax   = 0.95
	UncontrolledFactorMin = 0.05
	UncontrolledFactorMax = 0.15

	ActivityBiasChance      = 0.30
	MaxUncontrolledAttempts = 5
	SuggestionFallbackAfter = 3

	MinTraitOptions = 3
	MaxTraitOptions = 5
)

type CareAction string

const (
	CareFeed      CareAction = "feed"
	CarePlay      CareAction = "play"
	CareAttention CareAction = "attention"
)

type CareEffect struct {
	Meter  int
	Points int
}

var CareActionEffects = map[CareAction]CareEffect{
	CareFeed:      {Meter: 15, Points: 10},
	CarePlay:      {Meter: 10, Points: 15},
	CareAttention: {Meter: 5, Points: 5},
}
