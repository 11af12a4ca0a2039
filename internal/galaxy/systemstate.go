package galaxy

// Modifier is a per-commodity adjustment carried by a system state. The zero
// value of any field means "unset"; read fields through the accessors, which
// return the neutral 1.0 for unset values.
type Modifier struct {
	VolatilityMult    float64 `json:"volatility_mult,omitempty"`
	MeanReversionMult float64 `json:"mean_reversion_mult,omitempty"`
	PriceMult         float64 `json:"price_mult,omitempty"`
	AvailabilityMult  float64 `json:"availability_mult,omitempty"`
}

func (m Modifier) Volatility() float64 {
	if m.VolatilityMult == 0 {
		return 1.0
	}
	return m.VolatilityMult
}

func (m Modifier) MeanReversion() float64 {
	if m.MeanReversionMult == 0 {
		return 1.0
	}
	return m.MeanReversionMult
}

func (m Modifier) Price() float64 {
	if m.PriceMult == 0 {
		return 1.0
	}
	return m.PriceMult
}

func (m Modifier) Availability() float64 {
	if m.AvailabilityMult == 0 {
		return 1.0
	}
	return m.AvailabilityMult
}

// SystemState is a time-boxed set of galaxy-wide economic modifiers. At most
// one is active at a time; the scheduler picks a new one when the current one
// expires.
type SystemState struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Duration  int                 `json:"duration"` // days
	Commodity map[string]Modifier `json:"commodity,omitempty"`
}

// ModifierFor returns the state's modifier for a commodity. The second return
// is false when the state carries no entry for it.
func (s *SystemState) ModifierFor(commodityID string) (Modifier, bool) {
	m, ok := s.Commodity[commodityID]
	return m, ok
}

// DefaultSystemStates returns the built-in system-state catalog.
func DefaultSystemStates() []SystemState {
	return []SystemState{
		{
			ID:       "calm",
			Name:     "Quiet Lanes",
			Duration: 45,
		},
		{
			ID:       "ore-rush",
			Name:     "Ore Rush",
			Duration: 30,
			Commodity: map[string]Modifier{
				"ore":    {VolatilityMult: 1.8, AvailabilityMult: 1.4},
				"alloys": {VolatilityMult: 1.3, PriceMult: 1.1},
			},
		},
		{
			ID:       "plague-outbreak",
			Name:     "Plague Outbreak",
			Duration: 25,
			Commodity: map[string]Modifier{
				"medicine": {PriceMult: 1.35, AvailabilityMult: 0.6, MeanReversionMult: 0.5},
				"organics": {PriceMult: 1.1},
			},
		},
		{
			ID:       "trade-embargo",
			Name:     "Trade Embargo",
			Duration: 40,
			Commodity: map[string]Modifier{
				"electronics": {AvailabilityMult: 0.5, VolatilityMult: 1.6},
				"fuel-cells":  {PriceMult: 1.2},
				"relics":      {AvailabilityMult: 0.4},
			},
		},
		{
			ID:       "harvest-glut",
			Name:     "Harvest Glut",
			Duration: 35,
			Commodity: map[string]Modifier{
				"organics": {PriceMult: 0.85, AvailabilityMult: 1.5},
				"water":    {AvailabilityMult: 1.3},
			},
		},
		{
			ID:       "antimatter-scare",
			Name:     "Antimatter Containment Scare",
			Duration: 20,
			Commodity: map[string]Modifier{
				"antimatter": {VolatilityMult: 2.5, MeanReversionMult: 0.4},
			},
		},
	}
}
