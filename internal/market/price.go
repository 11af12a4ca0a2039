package market

import "math"

// evolvePrices advances every commodity price at every location by one week.
// Commodities above the revealed tier are skipped entirely.
func (e *Engine) evolvePrices() {
	for i := range e.locations {
		loc := &e.locations[i]
		for j := range e.commodities {
			c := &e.commodities[j]
			if c.Tier > e.revealedTier {
				continue
			}

			rec := e.inventory[loc.ID][c.ID]
			price := e.prices[loc.ID][c.ID]
			baseline := e.localBaseline(c.ID, loc.ModifierFor(c.ID))

			volatility := e.cfg.Volatility
			meanReversion := e.cfg.MeanReversion
			mod, hasMod := e.activeModifier(c.ID)
			if hasMod {
				volatility *= mod.Volatility()
				meanReversion *= mod.MeanReversion()
			}

			fluctuation := e.uniform(-0.5, 0.5) * c.PriceSpan() * volatility

			// Reversion, in precedence order: an active price lock zeroes it
			// outright; rival arbitrage otherwise overrides its strength; a
			// hover pin then dampens whatever was computed.
			reversion := (baseline - price) * meanReversion
			if e.day < rec.PriceLockEndDay {
				reversion = 0
			} else if rec.RivalArbitrageActive {
				if e.day < rec.RivalArbitrageEndDay {
					reversion = (baseline - price) * e.cfg.RivalReversion
				} else {
					rec.RivalArbitrageActive = false
					rec.RivalArbitrageEndDay = 0
				}
			}
			if rec.HoverUntilDay > e.day {
				reversion *= e.cfg.HoverReversionFactor
			} else if rec.HoverUntilDay != 0 {
				rec.HoverUntilDay = 0
			}

			// Pressure reaches prices only after the delay window, so a trade
			// can never arbitrage against its own price impact.
			pressure := 0.0
			if rec.LastPlayerInteraction > 0 && e.day-rec.LastPlayerInteraction >= e.cfg.PressureDelayDays {
				pressure = baseline * rec.MarketPressure * -1 * e.cfg.PressureStrength
			}

			hike := 1.0
			if rec.IsDepleted && e.day < rec.DepletionDay+e.cfg.DepletionHikeDays {
				hike = e.cfg.DepletionHikeMult
			}

			newPrice := price + fluctuation + reversion + pressure*hike
			if hasMod {
				newPrice *= mod.Price()
			}
			e.prices[loc.ID][c.ID] = math.Max(1, math.Round(newPrice))

			rec.MarketPressure *= e.cfg.PressureDecay
			if math.Abs(rec.MarketPressure) < e.cfg.PressureSnapEpsilon {
				rec.MarketPressure = 0
			}
		}
	}
}
