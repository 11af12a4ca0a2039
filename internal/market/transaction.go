package market

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// TradeSide is the direction of a player trade.
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// TradeRecord is one completed player trade in the ledger.
type TradeRecord struct {
	ID          string    `json:"id"`
	Day         int       `json:"day"`
	LocationID  string    `json:"location_id"`
	CommodityID string    `json:"commodity_id"`
	Quantity    float64   `json:"quantity"`
	Side        TradeSide `json:"side"`
}

// Seasonal price-lock duration ranges, in days. Locks set in the first half
// of the year run shorter than locks set in the second half.
const (
	yearDays          = 365
	earlyYearCutoff   = 182
	earlyLockMinDays  = 75
	earlyLockMaxDays  = 120
	lateLockMinDays   = 105
	lateLockMaxDays   = 195
)

// RecordTransaction applies the market impact of a completed player trade at
// the given location: a signed pressure shift proportional to trade size and
// commodity tier, a season-dependent price lock, and the stock movement
// itself. The trade is assumed already validated by the caller (stock and
// funds checked); the engine only records its market effects.
func (e *Engine) RecordTransaction(locationID, commodityID string, quantity float64, side TradeSide) (TradeRecord, error) {
	if side != Buy && side != Sell {
		return TradeRecord{}, fmt.Errorf("%w: %q", ErrInvalidTradeSide, side)
	}
	c, ok := e.commodityIndex[commodityID]
	if !ok {
		return TradeRecord{}, fmt.Errorf("%w: %q", ErrUnknownCommodity, commodityID)
	}
	rec, err := e.record(locationID, commodityID)
	if err != nil {
		return TradeRecord{}, err
	}

	availMax := c.Availability[1]
	if availMax <= 0 {
		availMax = e.cfg.DefaultAvailabilityMax
	}

	// Unclamped: very large trades have proportionally larger and
	// longer-lasting effects.
	pressureChange := quantity / availMax * float64(c.Tier) / 10
	if side == Buy {
		rec.MarketPressure -= pressureChange
	} else {
		rec.MarketPressure += pressureChange
	}

	if side == Buy {
		hadStock := rec.Quantity > 0
		rec.Quantity = math.Max(0, rec.Quantity-quantity)
		if hadStock && rec.Quantity == 0 {
			rec.IsDepleted = true
			rec.DepletionDay = e.day
		}
	} else {
		rec.Quantity += quantity
	}

	dayOfYear := (e.day-1)%yearDays + 1
	var lockLen int
	if dayOfYear <= earlyYearCutoff {
		lockLen = e.intBetween(earlyLockMinDays, earlyLockMaxDays)
	} else {
		lockLen = e.intBetween(lateLockMinDays, lateLockMaxDays)
	}
	rec.PriceLockEndDay = e.day + lockLen

	rec.LastPlayerInteraction = e.day

	trade := TradeRecord{
		ID:          uuid.NewString(),
		Day:         e.day,
		LocationID:  locationID,
		CommodityID: commodityID,
		Quantity:    quantity,
		Side:        side,
	}
	e.ledger = append(e.ledger, trade)
	if len(e.ledger) > e.cfg.LedgerCap {
		e.ledger = e.ledger[len(e.ledger)-e.cfg.LedgerCap:]
	}

	return trade, nil
}

// RecentTrades returns up to limit of the most recent ledger entries, newest
// first.
func (e *Engine) RecentTrades(limit int) []TradeRecord {
	if limit <= 0 || limit > len(e.ledger) {
		limit = len(e.ledger)
	}
	out := make([]TradeRecord, 0, limit)
	for i := len(e.ledger) - 1; i >= len(e.ledger)-limit; i-- {
		out = append(out, e.ledger[i])
	}
	return out
}
