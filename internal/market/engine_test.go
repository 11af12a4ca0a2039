package market

import (
	"errors"
	"testing"

	"github.com/talgya/starlane/internal/galaxy"
)

// testGalaxy returns a single-location, single-commodity galaxy with a
// galactic average of 150 and a neutral location modifier.
func testGalaxy() *galaxy.Galaxy {
	commodities := []galaxy.Commodity{
		{ID: "ore", Name: "Raw Ore", Tier: 2, BasePrice: [2]float64{100, 200}, Availability: [2]float64{40, 80}},
	}
	locations := []galaxy.Location{
		{ID: "port", Name: "Port Veyra"},
	}
	return galaxy.New(commodities, locations, nil)
}

// quietConfig disables volatility and reversion so individual effects can be
// observed in isolation.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Volatility = 0
	cfg.MeanReversion = 0
	cfg.Seed = 1
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, g *galaxy.Galaxy) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, g)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetRevealedTier(4)
	return e
}

func TestNewEngineInitialState(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())

	price, err := e.GetPrice("port", "ore")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if price != 150 {
		t.Fatalf("initial price = %v, want local baseline 150", price)
	}

	rec, err := e.GetInventory("port", "ore")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if rec.Quantity < 40 || rec.Quantity > 80 {
		t.Fatalf("initial quantity = %v, want within availability range [40,80]", rec.Quantity)
	}
	if rec.MarketPressure != 0 || rec.LastPlayerInteraction != 0 {
		t.Fatalf("fresh record carries player state: %+v", rec)
	}
}

func TestNewEngineRejectsUnknownReferences(t *testing.T) {
	g := testGalaxy()
	g.Locations[0].AvailabilityModifier = map[string]float64{"plasma": 1.3}
	if _, err := NewEngine(quietConfig(), g); !errors.Is(err, ErrUnknownCommodity) {
		t.Fatalf("location with unknown modifier commodity: err = %v, want ErrUnknownCommodity", err)
	}

	g = testGalaxy()
	g.SystemStates = []galaxy.SystemState{
		{ID: "storm", Duration: 10, Commodity: map[string]galaxy.Modifier{"plasma": {PriceMult: 2}}},
	}
	if _, err := NewEngine(quietConfig(), g); !errors.Is(err, ErrUnknownCommodity) {
		t.Fatalf("system state with unknown commodity: err = %v, want ErrUnknownCommodity", err)
	}
}

func TestReadAPIUnknownIDs(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())

	if _, err := e.GetPrice("nowhere", "ore"); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("GetPrice unknown location: err = %v", err)
	}
	if _, err := e.GetPrice("port", "plasma"); !errors.Is(err, ErrUnknownCommodity) {
		t.Fatalf("GetPrice unknown commodity: err = %v", err)
	}
	if _, err := e.GetGalacticAverage("plasma"); !errors.Is(err, ErrUnknownCommodity) {
		t.Fatalf("GetGalacticAverage unknown commodity: err = %v", err)
	}
	if _, err := e.GetInventory("nowhere", "ore"); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("GetInventory unknown location: err = %v", err)
	}
	if _, err := e.GetPriceHistory("port", "plasma"); !errors.Is(err, ErrUnknownCommodity) {
		t.Fatalf("GetPriceHistory unknown commodity: err = %v", err)
	}
}

func TestInventoryViewIsACopy(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())

	rec, _ := e.GetInventory("port", "ore")
	rec.Quantity = -999
	rec.MarketPressure = 42

	again, _ := e.GetInventory("port", "ore")
	if again.Quantity == -999 || again.MarketPressure == 42 {
		t.Fatal("mutating the returned inventory record reached the engine")
	}
}

func TestTierGating(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())
	e.SetRevealedTier(1) // the only commodity is tier 2

	before, _ := e.GetPrice("port", "ore")
	for i := 0; i < 5; i++ {
		e.AdvanceWeek()
	}

	after, _ := e.GetPrice("port", "ore")
	if after != before {
		t.Fatalf("hidden-tier price moved: %v -> %v", before, after)
	}
	series, _ := e.GetPriceHistory("port", "ore")
	if len(series) != 0 {
		t.Fatalf("hidden-tier commodity recorded %d history samples", len(series))
	}

	e.SetRevealedTier(2)
	e.AdvanceWeek()
	series, _ = e.GetPriceHistory("port", "ore")
	if len(series) != 1 {
		t.Fatalf("revealed commodity recorded %d samples, want 1", len(series))
	}
}

func TestSystemStateScheduler(t *testing.T) {
	g := testGalaxy()
	g.SystemStates = []galaxy.SystemState{
		{ID: "boom", Name: "Boom", Duration: 10},
		{ID: "bust", Name: "Bust", Duration: 20},
	}
	e := newTestEngine(t, quietConfig(), g)

	if _, _, ok := e.ActiveSystemState(); ok {
		t.Fatal("system state active before first tick")
	}

	e.AdvanceWeek()
	st, expiry, ok := e.ActiveSystemState()
	if !ok {
		t.Fatal("no system state active after first tick")
	}
	if expiry != 1+st.Duration {
		t.Fatalf("expiry = %d, want day+duration = %d", expiry, 1+st.Duration)
	}

	// The state must stay fixed until its expiry day has passed.
	for e.CurrentDay() <= expiry {
		cur, _, _ := e.ActiveSystemState()
		if cur.ID != st.ID {
			t.Fatalf("state changed to %q on day %d, before expiry %d", cur.ID, e.CurrentDay(), expiry)
		}
		e.AdvanceWeek()
	}
	if _, newExpiry, _ := e.ActiveSystemState(); newExpiry <= expiry {
		t.Fatalf("expiry not advanced after rollover: %d -> %d", expiry, newExpiry)
	}
}

func TestBoundednessUnderLoad(t *testing.T) {
	commodities := galaxy.DefaultCommodities()
	genCfg := galaxy.DefaultGenConfig()
	genCfg.Seed = 7
	genCfg.Locations = 5
	g := galaxy.New(commodities, galaxy.Generate(genCfg, commodities), galaxy.DefaultSystemStates())

	cfg := DefaultConfig()
	cfg.Seed = 7
	e := newTestEngine(t, cfg, g)

	for tick := 1; tick <= 200; tick++ {
		if tick%10 == 0 {
			if _, err := e.RecordTransaction(g.Locations[0].ID, "ore", 500, Buy); err != nil {
				t.Fatalf("tick %d: RecordTransaction: %v", tick, err)
			}
		}
		if tick%17 == 0 {
			if _, err := e.RecordTransaction(g.Locations[1].ID, "water", 1000, Sell); err != nil {
				t.Fatalf("tick %d: RecordTransaction: %v", tick, err)
			}
		}
		e.AdvanceWeek()

		for _, loc := range g.Locations {
			for _, c := range g.Commodities {
				price, err := e.GetPrice(loc.ID, c.ID)
				if err != nil {
					t.Fatalf("GetPrice(%s,%s): %v", loc.ID, c.ID, err)
				}
				if price < 1 {
					t.Fatalf("tick %d: price %s/%s = %v, below floor", tick, loc.ID, c.ID, price)
				}
				rec, _ := e.GetInventory(loc.ID, c.ID)
				if rec.Quantity < 0 {
					t.Fatalf("tick %d: quantity %s/%s = %v, negative", tick, loc.ID, c.ID, rec.Quantity)
				}
			}
		}
	}
}
