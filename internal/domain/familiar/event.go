package familiar

import "time"

const (
	EventCreated         = "familiar_created"
	EventCarePerformed   = "care_performed"
	EventCareDecayed     = "care_decayed"
	EventMutationOffered = "mutation_offered"
	EventMutationApplied = "mutation_applied"
	EventEvolutionCycle  = "evolution_cycle"
	EventBiomeRotated    = "biome_rotated"
	EventPrivacyChanged  = "privacy_changed"
	EventRemoved         = "familiar_removed"
)

type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
