// Package galaxy provides the immutable reference data for the trade
// simulation: the commodity catalog, the location catalog with per-commodity
// availability modifiers, and the system-state catalog of galaxy-wide
// economic events.
package galaxy

// Commodity describes one tradeable good.
type Commodity struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Tier         int        `json:"tier"`         // 1 = common, higher tiers unlock later
	BasePrice    [2]float64 `json:"base_price"`   // [low, high] credits per unit
	Availability [2]float64 `json:"availability"` // [min, max] expected stock at a neutral location
}

// PriceSpan returns the width of the commodity's base price range.
func (c Commodity) PriceSpan() float64 {
	return c.BasePrice[1] - c.BasePrice[0]
}

// DefaultCommodities returns the built-in commodity catalog.
func DefaultCommodities() []Commodity {
	return []Commodity{
		{ID: "water", Name: "Water Ice", Tier: 1, BasePrice: [2]float64{8, 20}, Availability: [2]float64{200, 400}},
		{ID: "ore", Name: "Raw Ore", Tier: 1, BasePrice: [2]float64{20, 45}, Availability: [2]float64{120, 260}},
		{ID: "organics", Name: "Organics", Tier: 1, BasePrice: [2]float64{15, 35}, Availability: [2]float64{150, 300}},
		{ID: "alloys", Name: "Refined Alloys", Tier: 2, BasePrice: [2]float64{60, 120}, Availability: [2]float64{60, 140}},
		{ID: "fuel-cells", Name: "Fuel Cells", Tier: 2, BasePrice: [2]float64{45, 90}, Availability: [2]float64{80, 160}},
		{ID: "medicine", Name: "Medicine", Tier: 3, BasePrice: [2]float64{150, 320}, Availability: [2]float64{30, 70}},
		{ID: "electronics", Name: "Electronics", Tier: 3, BasePrice: [2]float64{180, 380}, Availability: [2]float64{25, 60}},
		{ID: "antimatter", Name: "Antimatter", Tier: 4, BasePrice: [2]float64{600, 1200}, Availability: [2]float64{6, 18}},
		{ID: "relics", Name: "Precursor Relics", Tier: 4, BasePrice: [2]float64{900, 2000}, Availability: [2]float64{3, 10}},
	}
}

// GalacticAverages computes the cross-location reference price for each
// commodity: the midpoint of its base price range. The market engine treats
// these as read-only input.
func GalacticAverages(commodities []Commodity) map[string]float64 {
	avg := make(map[string]float64, len(commodities))
	for _, c := range commodities {
		avg[c.ID] = (c.BasePrice[0] + c.BasePrice[1]) / 2
	}
	return avg
}

// MaxTier returns the highest tier present in the catalog.
func MaxTier(commodities []Commodity) int {
	max := 1
	for _, c := range commodities {
		if c.Tier > max {
			max = c.Tier
		}
	}
	return max
}
