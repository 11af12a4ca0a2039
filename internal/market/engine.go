// Package market implements the commodity market simulation: per-location
// prices that drift week over week, inventories that replenish toward
// demand-adjusted targets, and the lingering effects player trades leave
// behind (price locks, market pressure, depletion hikes).
//
// The engine is single-threaded by design: the weekly tick and trade
// recording mutate the same records and must be serialized by the caller.
package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/talgya/starlane/internal/galaxy"
)

var (
	ErrUnknownLocation  = errors.New("unknown location")
	ErrUnknownCommodity = errors.New("unknown commodity")
	ErrInvalidTradeSide = errors.New("invalid trade side")
)

// InventoryRecord is the persistent per-(location, commodity) market state.
type InventoryRecord struct {
	Quantity       float64 `json:"quantity"`        // Current stock, never negative
	MarketPressure float64 `json:"market_pressure"` // Signed: negative = net player buying

	LastPlayerInteraction int `json:"last_player_interaction"` // Day of last trade, 0 = never
	PriceLockEndDay       int `json:"price_lock_end_day"`      // Mean reversion suppressed before this day

	DepletionDay      int  `json:"depletion_day"` // Day stock was bought out
	IsDepleted        bool `json:"is_depleted"`
	DepletionBonusDay int  `json:"depletion_bonus_day"` // Buyout bonus cooldown, consumed externally

	HoverUntilDay        int  `json:"hover_until_day"` // Reversion pinned to hover strength before this day
	RivalArbitrageActive bool `json:"rival_arbitrage_active"`
	RivalArbitrageEndDay int  `json:"rival_arbitrage_end_day"`
}

// PricePoint is one price-history sample.
type PricePoint struct {
	Day   int     `json:"day"`
	Price float64 `json:"price"`
}

// Engine owns the mutable market state for every location and commodity and
// advances it one week per tick. Reference data comes from the galaxy catalogs
// and is never mutated.
type Engine struct {
	cfg Config

	commodities []galaxy.Commodity
	locations   []galaxy.Location
	states      []galaxy.SystemState

	commodityIndex map[string]*galaxy.Commodity
	locationIndex  map[string]*galaxy.Location
	galacticAvg    map[string]float64

	day          int
	revealedTier int

	prices    map[string]map[string]float64          // location → commodity → price
	inventory map[string]map[string]*InventoryRecord // location → commodity → record
	history   map[string]map[string][]PricePoint     // location → commodity → samples
	ledger    []TradeRecord

	activeState    *galaxy.SystemState
	stateExpiryDay int

	rng *rand.Rand
}

// NewEngine validates the reference data, draws initial stock and prices, and
// returns a ready engine. Every commodity referenced by a location modifier
// must exist in the catalog; unknown references fail here rather than
// degrading silently at tick time.
func NewEngine(cfg Config, g *galaxy.Galaxy) (*Engine, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	e := &Engine{
		cfg:            cfg,
		commodities:    g.Commodities,
		locations:      g.Locations,
		states:         g.SystemStates,
		commodityIndex: make(map[string]*galaxy.Commodity, len(g.Commodities)),
		locationIndex:  make(map[string]*galaxy.Location, len(g.Locations)),
		galacticAvg:    make(map[string]float64, len(g.Commodities)),
		revealedTier:   1,
		prices:         make(map[string]map[string]float64, len(g.Locations)),
		inventory:      make(map[string]map[string]*InventoryRecord, len(g.Locations)),
		history:        make(map[string]map[string][]PricePoint, len(g.Locations)),
		rng:            rand.New(rand.NewSource(seed)),
	}

	for i := range e.commodities {
		c := &e.commodities[i]
		if _, dup := e.commodityIndex[c.ID]; dup {
			return nil, fmt.Errorf("duplicate commodity %q", c.ID)
		}
		e.commodityIndex[c.ID] = c
		avg, ok := g.Averages[c.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no galactic average for %q", ErrUnknownCommodity, c.ID)
		}
		e.galacticAvg[c.ID] = avg
	}

	for i := range e.locations {
		loc := &e.locations[i]
		if _, dup := e.locationIndex[loc.ID]; dup {
			return nil, fmt.Errorf("duplicate location %q", loc.ID)
		}
		e.locationIndex[loc.ID] = loc
		for id := range loc.AvailabilityModifier {
			if _, ok := e.commodityIndex[id]; !ok {
				return nil, fmt.Errorf("%w: location %q modifier references %q", ErrUnknownCommodity, loc.ID, id)
			}
		}
	}

	for i := range e.states {
		st := &e.states[i]
		for id := range st.Commodity {
			if _, ok := e.commodityIndex[id]; !ok {
				return nil, fmt.Errorf("%w: system state %q references %q", ErrUnknownCommodity, st.ID, id)
			}
		}
	}

	// Seed initial state: price at the local baseline, stock drawn from the
	// skewed baseline distribution.
	for i := range e.locations {
		loc := &e.locations[i]
		e.prices[loc.ID] = make(map[string]float64, len(e.commodities))
		e.inventory[loc.ID] = make(map[string]*InventoryRecord, len(e.commodities))
		e.history[loc.ID] = make(map[string][]PricePoint, len(e.commodities))

		for j := range e.commodities {
			c := &e.commodities[j]
			mod := loc.ModifierFor(c.ID)
			e.prices[loc.ID][c.ID] = math.Max(1, math.Round(e.localBaseline(c.ID, mod)))
			e.inventory[loc.ID][c.ID] = &InventoryRecord{
				Quantity: e.baselineStock(c, mod),
			}
		}
	}

	return e, nil
}

// localBaseline is the gravitational center for a commodity's price at one
// location. Exporters (modifier > 1) pull it below the galactic average,
// importers above.
func (e *Engine) localBaseline(commodityID string, modifier float64) float64 {
	avg := e.galacticAvg[commodityID]
	return avg + (1-modifier)*avg*e.cfg.LocalPriceModStrength
}

// baselineStock draws a fresh baseline quantity for a record.
func (e *Engine) baselineStock(c *galaxy.Commodity, modifier float64) float64 {
	return math.Floor(e.skewedRandom(c.Availability[0], c.Availability[1]) * modifier)
}

// AdvanceWeek runs one simulation tick: system-state rollover, price
// evolution, inventory replenishment, history recording. The day counter
// advances by one per tick.
func (e *Engine) AdvanceWeek() {
	e.day++
	e.rollSystemState()
	e.evolvePrices()
	e.replenishInventories()
	e.recordHistory()
}

// rollSystemState replaces the active system state once it has expired.
// Selection is uniform and memoryless; the same state may repeat.
func (e *Engine) rollSystemState() {
	if len(e.states) == 0 || e.day <= e.stateExpiryDay {
		return
	}
	e.activeState = &e.states[e.rng.Intn(len(e.states))]
	e.stateExpiryDay = e.day + e.activeState.Duration
}

// activeModifier returns the active system state's modifier for a commodity,
// if any.
func (e *Engine) activeModifier(commodityID string) (galaxy.Modifier, bool) {
	if e.activeState == nil {
		return galaxy.Modifier{}, false
	}
	return e.activeState.ModifierFor(commodityID)
}

// CurrentDay returns the simulation day of the most recent tick.
func (e *Engine) CurrentDay() int {
	return e.day
}

// RevealedTier returns the highest commodity tier currently simulated.
func (e *Engine) RevealedTier() int {
	return e.revealedTier
}

// SetRevealedTier gates which commodities are simulated each tick. Commodities
// above the tier are skipped entirely, including history recording.
func (e *Engine) SetRevealedTier(tier int) {
	if tier < 1 {
		tier = 1
	}
	e.revealedTier = tier
}

// ActiveSystemState returns the current galaxy-wide economic event, if one has
// been activated, along with its expiry day.
func (e *Engine) ActiveSystemState() (galaxy.SystemState, int, bool) {
	if e.activeState == nil {
		return galaxy.SystemState{}, 0, false
	}
	return *e.activeState, e.stateExpiryDay, true
}

// GetPrice returns the simulated price for a commodity at a location.
func (e *Engine) GetPrice(locationID, commodityID string) (float64, error) {
	if _, ok := e.locationIndex[locationID]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	p, ok := e.prices[locationID][commodityID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommodity, commodityID)
	}
	return p, nil
}

// GetGalacticAverage returns the cross-location reference price.
func (e *Engine) GetGalacticAverage(commodityID string) (float64, error) {
	avg, ok := e.galacticAvg[commodityID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommodity, commodityID)
	}
	return avg, nil
}

// GetInventory returns a copy of the inventory record for a location and
// commodity. Mutations on the copy do not reach the engine.
func (e *Engine) GetInventory(locationID, commodityID string) (InventoryRecord, error) {
	rec, err := e.record(locationID, commodityID)
	if err != nil {
		return InventoryRecord{}, err
	}
	return *rec, nil
}

// GetPriceHistory returns a copy of the rolling price history series.
func (e *Engine) GetPriceHistory(locationID, commodityID string) ([]PricePoint, error) {
	if _, ok := e.locationIndex[locationID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	if _, ok := e.commodityIndex[commodityID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommodity, commodityID)
	}
	series := e.history[locationID][commodityID]
	out := make([]PricePoint, len(series))
	copy(out, series)
	return out, nil
}

// SetHover pins mean reversion to hover strength for a record until the given
// day. Used by external systems such as intel deals.
func (e *Engine) SetHover(locationID, commodityID string, untilDay int) error {
	rec, err := e.record(locationID, commodityID)
	if err != nil {
		return err
	}
	rec.HoverUntilDay = untilDay
	return nil
}

// TriggerRivalArbitrage fixes a record's reversion at the rival strength until
// the given day.
func (e *Engine) TriggerRivalArbitrage(locationID, commodityID string, endDay int) error {
	rec, err := e.record(locationID, commodityID)
	if err != nil {
		return err
	}
	rec.RivalArbitrageActive = true
	rec.RivalArbitrageEndDay = endDay
	return nil
}

func (e *Engine) record(locationID, commodityID string) (*InventoryRecord, error) {
	if _, ok := e.locationIndex[locationID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	rec, ok := e.inventory[locationID][commodityID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommodity, commodityID)
	}
	return rec, nil
}
