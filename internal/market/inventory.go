package market

import "math"

// replenishInventories advances every stock level toward its demand-adjusted
// target, once per weekly tick. Unlike price evolution, replenishment is not
// tier-gated: hidden markets keep stocking in the background.
func (e *Engine) replenishInventories() {
	for i := range e.locations {
		loc := &e.locations[i]
		for j := range e.commodities {
			c := &e.commodities[j]
			rec := e.inventory[loc.ID][c.ID]
			modifier := loc.ModifierFor(c.ID)

			// Markets untouched for long enough reset to a fresh baseline and
			// forget all player-induced state.
			if rec.LastPlayerInteraction > 0 && e.day-rec.LastPlayerInteraction > e.cfg.InactivityResetDays {
				rec.Quantity = e.baselineStock(c, modifier)
				rec.LastPlayerInteraction = 0
				rec.MarketPressure = 0
				rec.DepletionDay = 0
				rec.IsDepleted = false
				rec.DepletionBonusDay = 0
				rec.PriceLockEndDay = 0
				continue
			}

			// Target stock: buying pressure raises it (the market stocks up to
			// meet demand), selling pressure never shrinks it, and buying
			// pressure is subject to the same delay as the price effect.
			baseMeanStock := (c.Availability[0] + c.Availability[1]) / 2 * modifier
			pressure := rec.MarketPressure
			if pressure > 0 {
				pressure = 0
			}
			if pressure < 0 && e.day-rec.LastPlayerInteraction < e.cfg.PressureDelayDays {
				pressure = 0
			}
			adaptation := 1 - math.Min(0.5, pressure*0.5)
			target := baseMeanStock * adaptation

			rec.Quantity += (target - rec.Quantity) * e.cfg.ReplenishRate

			// Emergency restock for bought-out or empty markets. DepletionDay
			// stays live so the price-hike window keeps running.
			if rec.IsDepleted || rec.Quantity <= 0 {
				rec.Quantity += e.skewedRandom(e.cfg.RestockBoostMin, e.cfg.RestockBoostMax)
				rec.IsDepleted = false
			}

			swing := e.uniform(e.cfg.FluctuationMin, e.cfg.FluctuationMax)
			if e.rng.Float64() < 0.5 {
				swing = -swing
			}
			rec.Quantity *= 1 + swing

			if mod, ok := e.activeModifier(c.ID); ok {
				rec.Quantity *= mod.Availability()
			}

			rec.Quantity = math.Max(0, math.Round(rec.Quantity))
		}
	}
}
