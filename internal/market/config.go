package market

// Config holds the tunable constants of the market simulation. Tests build
// degenerate configs (zero volatility, zero reversion) to isolate individual
// effects.
type Config struct {
	// Price evolution.
	Volatility            float64 // Base random fluctuation strength
	MeanReversion         float64 // Base pull toward the local baseline
	LocalPriceModStrength float64 // How strongly a location's modifier shifts its baseline
	PressureStrength      float64 // Scale of delayed player-pressure on price
	PressureDecay         float64 // Geometric pressure decay per tick, <1
	PressureSnapEpsilon   float64 // |pressure| below this snaps to exactly 0
	PressureDelayDays     int     // Days before a trade's pressure reaches prices
	DepletionHikeDays     int     // Length of the post-depletion price-hike window
	DepletionHikeMult     float64 // Pressure multiplier inside that window
	HoverReversionFactor  float64 // Reversion damping while a hover pin is live
	RivalReversion        float64 // Fixed reversion strength under rival arbitrage

	// Inventory replenishment.
	InactivityResetDays int     // Days without trades before a record resets
	ReplenishRate       float64 // Fraction of the stock gap closed per tick
	RestockBoostMin     float64 // Emergency restock draw range
	RestockBoostMax     float64
	FluctuationMin      float64 // Visual stock fluctuation range (±)
	FluctuationMax      float64

	// Bookkeeping.
	HistoryCap             int     // Max price-history samples per series
	LedgerCap              int     // Max retained trade records
	DefaultAvailabilityMax float64 // Fallback when a commodity has no max availability

	Seed int64 // RNG seed (0 = nondeterministic)
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		Volatility:            0.10,
		MeanReversion:         0.05,
		LocalPriceModStrength: 0.5,
		PressureStrength:      0.05,
		PressureDecay:         0.80,
		PressureSnapEpsilon:   0.001,
		PressureDelayDays:     7,
		DepletionHikeDays:     7,
		DepletionHikeMult:     1.5,
		HoverReversionFactor:  0.1,
		RivalReversion:        0.20,

		InactivityResetDays: 120,
		ReplenishRate:       0.10,
		RestockBoostMin:     1,
		RestockBoostMax:     5,
		FluctuationMin:      0.15,
		FluctuationMax:      0.30,

		HistoryCap:             52,
		LedgerCap:              256,
		DefaultAvailabilityMax: 100,
	}
}
