package galaxy

// Coord is a location's position on the galactic plane, used for noise
// sampling during generation.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Location describes one market location. AvailabilityModifier maps commodity
// IDs to a local supply factor: >1 means the location exports the commodity
// (more stock, cheaper), <1 means it imports it (less stock, pricier).
// Commodities absent from the map are neutral.
type Location struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Coord                Coord              `json:"coord"`
	AvailabilityModifier map[string]float64 `json:"availability_modifier"`
	FuelPrice            float64            `json:"fuel_price"`
}

// ModifierFor returns the location's availability modifier for a commodity,
// defaulting to the neutral 1.0 when the commodity has no entry.
func (l *Location) ModifierFor(commodityID string) float64 {
	if m, ok := l.AvailabilityModifier[commodityID]; ok && m > 0 {
		return m
	}
	return 1.0
}
