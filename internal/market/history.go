package market

// recordHistory appends one price sample per location and revealed commodity
// for the current day. Re-ticks on the same day overwrite the latest sample
// instead of appending; series are capped FIFO.
func (e *Engine) recordHistory() {
	for i := range e.locations {
		loc := &e.locations[i]
		for j := range e.commodities {
			c := &e.commodities[j]
			if c.Tier > e.revealedTier {
				continue
			}

			series := e.history[loc.ID][c.ID]
			price := e.prices[loc.ID][c.ID]

			if n := len(series); n > 0 && series[n-1].Day == e.day {
				series[n-1].Price = price
			} else {
				series = append(series, PricePoint{Day: e.day, Price: price})
			}
			if len(series) > e.cfg.HistoryCap {
				series = series[len(series)-e.cfg.HistoryCap:]
			}
			e.history[loc.ID][c.ID] = series
		}
	}
}
