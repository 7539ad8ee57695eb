package familiar

// Sub-stat names addressable by mutation stat effects.
const (
	StatSpeed     = "speed"
	StatAgility   = "agility"
	StatEndurance = "endurance"

	StatVision  = "vision"
	StatHearing = "hearing"
	StatStealth = "stealth"

	StatAttack     = "attack"
	StatDefense    = "defense"
	StatResilience = "resilience"

	StatIntelligence = "intelligence"
	StatFocus        = "focus"
	StatMemory       = "memory"

	StatHealth    = "health"
	StatEnergy    = "energy"
	StatHappiness = "happiness"
)

type Mobility struct {
	Speed     int `json:"speed"`
	Agility   int `json:"agility"`
	Endurance int `json:"endurance"`
}

type Senses struct {
	Vision  int `json:"vision"`
	Hearing int `json:"hearing"`
	Stealth int `json:"stealth"`
}

type Survival struct {
	Attack     int `json:"attack"`
	Defense    int `json:"defense"`
	Resilience int `json:"resilience"`
}

type Cognition struct {
	Intelligence int `json:"intelligence"`
	Focus        int `json:"focus"`
	Memory       int `json:"memory"`
}

type Vitals struct {
	Health    int `json:"health"`
	Energy    int `json:"energy"`
	Happiness int `json:"happiness"`
}

type Stats struct {
	Mobility  Mobility  `json:"mobility"`
	Senses    Senses    `json:"senses"`
	Survival  Survival  `json:"survival"`
	Cognition Cognition `json:"cognition"`
	Vitals    Vitals    `json:"vitals"`
}

func DefaultStats() Stats {
	return Stats{
		Mobility:  Mobility{Speed: 50, Agility: 50, Endurance: 50},
		Senses:    Senses{Vision: 50, Hearing: 50, Stealth: 50},
		Survival:  Survival{Attack: 50, Defense: 50, Resilience: 50},
		Cognition: Cognition{Intelligence: 50, Focus: 50, Memory: 50},
		Vitals:    Vitals{Health: 100, Energy: 100, Happiness: 100},
	}
}

// Apply adds each effect delta to the named sub-stat and clamps the whole
// stat block to [0,100]. Unknown names are ignored.
func (s *Stats) Apply(effects map[string]int) {
	for name, delta := range effects {
		if p := s.field(name); p != nil {
			*p += delta
		}
	}
	s.Clamp()
}

func (s *Stats) field(name string) *int {
	switch name {
	case StatSpeed:
		return &s.Mobility.Speed
	case StatAgility:
		return &s.Mobility.Agility
	case StatEndurance:
		return &s.Mobility.Endurance
	case StatVision:
		return &s.Senses.Vision
	case StatHearing:
		return &s.Senses.Hearing
	case StatStealth:
		return &s.Senses.Stealth
	case StatAttack:
		return &s.Survival.Attack
	case StatDefense:
		return &s.Survival.Defense
	case StatResilience:
		return &s.Survival.Resilience
	case StatIntelligence:
		return &s.Cognition.Intelligence
	case StatFocus:
		return &s.Cognition.Focus
	case StatMemory:
		return &s.Cognition.Memory
	case StatHealth:
		return &s.Vitals.Health
	case StatEnergy:
		return &s.Vitals.Energy
	case StatHappiness:
		return &s.Vitals.Happiness
	}
	return nil
}

func (s *Stats) Clamp() {
	for _, name := range statNames {
		p := s.field(name)
		if *p < 0 {
			*p = 0
		}
		if *p > StatMax {
			*p = StatMax
		}
	}
}

var statNames = []string{
	StatSpeed, StatAgility, StatEndurance,
	StatVision, StatHearing, StatStealth,
	StatAttack, StatDefense, StatResilience,
	StatIntelligence, StatFocus, StatMemory,
	StatHealth, StatEnergy, StatHappiness,
}
