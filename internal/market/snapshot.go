package market

import "fmt"

// Snapshot is the engine's full mutable state in a persistence-friendly
// shape. Reference data (catalogs, galactic averages) is not part of it; a
// restored engine must be built against the same galaxy.
type Snapshot struct {
	Day               int
	RevealedTier      int
	SystemStateID     string // empty = none active yet
	SystemStateExpiry int

	Prices    map[string]map[string]float64
	Inventory map[string]map[string]InventoryRecord
	History   map[string]map[string][]PricePoint
	Ledger    []TradeRecord
}

// Snapshot exports a deep copy of the engine's mutable state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Day:          e.day,
		RevealedTier: e.revealedTier,
		Prices:       make(map[string]map[string]float64, len(e.prices)),
		Inventory:    make(map[string]map[string]InventoryRecord, len(e.inventory)),
		History:      make(map[string]map[string][]PricePoint, len(e.history)),
		Ledger:       append([]TradeRecord(nil), e.ledger...),
	}
	if e.activeState != nil {
		s.SystemStateID = e.activeState.ID
		s.SystemStateExpiry = e.stateExpiryDay
	}

	for locID, byCommodity := range e.prices {
		prices := make(map[string]float64, len(byCommodity))
		for id, p := range byCommodity {
			prices[id] = p
		}
		s.Prices[locID] = prices
	}
	for locID, byCommodity := range e.inventory {
		records := make(map[string]InventoryRecord, len(byCommodity))
		for id, rec := range byCommodity {
			records[id] = *rec
		}
		s.Inventory[locID] = records
	}
	for locID, byCommodity := range e.history {
		series := make(map[string][]PricePoint, len(byCommodity))
		for id, points := range byCommodity {
			series[id] = append([]PricePoint(nil), points...)
		}
		s.History[locID] = series
	}

	return s
}

// Restore replaces the engine's mutable state from a snapshot. Locations or
// commodities in the snapshot that the galaxy no longer knows are an error;
// records absent from the snapshot keep their freshly drawn initial state.
func (e *Engine) Restore(s Snapshot) error {
	for locID, byCommodity := range s.Inventory {
		if _, ok := e.locationIndex[locID]; !ok {
			return fmt.Errorf("%w: %q in snapshot", ErrUnknownLocation, locID)
		}
		for id := range byCommodity {
			if _, ok := e.commodityIndex[id]; !ok {
				return fmt.Errorf("%w: %q in snapshot", ErrUnknownCommodity, id)
			}
		}
	}

	e.day = s.Day
	if s.RevealedTier >= 1 {
		e.revealedTier = s.RevealedTier
	}

	e.activeState = nil
	e.stateExpiryDay = 0
	if s.SystemStateID != "" {
		for i := range e.states {
			if e.states[i].ID == s.SystemStateID {
				e.activeState = &e.states[i]
				e.stateExpiryDay = s.SystemStateExpiry
				break
			}
		}
		if e.activeState == nil {
			return fmt.Errorf("snapshot references unknown system state %q", s.SystemStateID)
		}
	}

	for locID, byCommodity := range s.Prices {
		for id, p := range byCommodity {
			if _, ok := e.prices[locID][id]; ok {
				e.prices[locID][id] = p
			}
		}
	}
	for locID, byCommodity := range s.Inventory {
		for id, rec := range byCommodity {
			if existing, ok := e.inventory[locID][id]; ok {
				*existing = rec
			}
		}
	}
	for locID, byCommodity := range s.History {
		for id, points := range byCommodity {
			if _, ok := e.inventory[locID][id]; ok {
				e.history[locID][id] = append([]PricePoint(nil), points...)
			}
		}
	}

	e.ledger = append([]TradeRecord(nil), s.Ledger...)
	if len(e.ledger) > e.cfg.LedgerCap {
		e.ledger = e.ledger[len(e.ledger)-e.cfg.LedgerCap:]
	}

	return nil
}
