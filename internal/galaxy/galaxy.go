package galaxy

// Galaxy bundles the reference data the market engine consumes: the three
// catalogs plus the externally computed galactic average prices. All fields
// are treated as immutable after construction.
type Galaxy struct {
	Commodities  []Commodity
	Locations    []Location
	SystemStates []SystemState
	Averages     map[string]float64
}

// New assembles a Galaxy and computes the galactic averages.
func New(commodities []Commodity, locations []Location, states []SystemState) *Galaxy {
	return &Galaxy{
		Commodities:  commodities,
		Locations:    locations,
		SystemStates: states,
		Averages:     GalacticAverages(commodities),
	}
}
