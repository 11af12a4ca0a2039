package galaxy

import "testing"

func TestGalacticAveragesAreMidpoints(t *testing.T) {
	avg := GalacticAverages([]Commodity{
		{ID: "ore", BasePrice: [2]float64{100, 200}},
		{ID: "water", BasePrice: [2]float64{8, 20}},
	})
	if avg["ore"] != 150 {
		t.Fatalf("ore average = %v, want 150", avg["ore"])
	}
	if avg["water"] != 14 {
		t.Fatalf("water average = %v, want 14", avg["water"])
	}
}

func TestModifierForDefaultsToNeutral(t *testing.T) {
	loc := Location{
		ID:                   "port",
		AvailabilityModifier: map[string]float64{"ore": 1.4, "relics": 0},
	}

	tests := []struct {
		commodity string
		want      float64
	}{
		{"ore", 1.4},
		{"water", 1.0},  // no entry
		{"relics", 1.0}, // malformed entry degrades to neutral
	}
	for _, tc := range tests {
		if got := loc.ModifierFor(tc.commodity); got != tc.want {
			t.Fatalf("ModifierFor(%q) = %v, want %v", tc.commodity, got, tc.want)
		}
	}
}

func TestModifierAccessorsDefaultToOne(t *testing.T) {
	var m Modifier
	if m.Volatility() != 1 || m.MeanReversion() != 1 || m.Price() != 1 || m.Availability() != 1 {
		t.Fatalf("zero modifier not neutral: %+v", m)
	}

	m = Modifier{VolatilityMult: 2.5, PriceMult: 0.8}
	if m.Volatility() != 2.5 || m.Price() != 0.8 {
		t.Fatalf("set fields not returned: %+v", m)
	}
	if m.MeanReversion() != 1 || m.Availability() != 1 {
		t.Fatalf("unset fields not neutral: %+v", m)
	}
}

func TestDefaultCatalogsAreConsistent(t *testing.T) {
	commodities := DefaultCommodities()
	ids := make(map[string]bool, len(commodities))
	for _, c := range commodities {
		if ids[c.ID] {
			t.Fatalf("duplicate commodity %q", c.ID)
		}
		ids[c.ID] = true
		if c.Tier < 1 {
			t.Fatalf("%s: tier %d", c.ID, c.Tier)
		}
		if c.BasePrice[0] >= c.BasePrice[1] {
			t.Fatalf("%s: base price range %v", c.ID, c.BasePrice)
		}
		if c.Availability[0] >= c.Availability[1] {
			t.Fatalf("%s: availability range %v", c.ID, c.Availability)
		}
	}

	// Every commodity a system state references must exist.
	for _, st := range DefaultSystemStates() {
		if st.Duration <= 0 {
			t.Fatalf("state %s: duration %d", st.ID, st.Duration)
		}
		for id := range st.Commodity {
			if !ids[id] {
				t.Fatalf("state %s references unknown commodity %q", st.ID, id)
			}
		}
	}

	if MaxTier(commodities) != 4 {
		t.Fatalf("MaxTier = %d, want 4", MaxTier(commodities))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 11
	commodities := DefaultCommodities()

	a := Generate(cfg, commodities)
	b := Generate(cfg, commodities)

	if len(a) != len(b) || len(a) != cfg.Locations {
		t.Fatalf("location counts: %d vs %d, want %d", len(a), len(b), cfg.Locations)
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Coord != b[i].Coord || a[i].FuelPrice != b[i].FuelPrice {
			t.Fatalf("location %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
		if len(a[i].AvailabilityModifier) != len(b[i].AvailabilityModifier) {
			t.Fatalf("location %d modifier counts differ", i)
		}
		for id, m := range a[i].AvailabilityModifier {
			if b[i].AvailabilityModifier[id] != m {
				t.Fatalf("location %d modifier %q differs", i, id)
			}
		}
	}
}

func TestGeneratedModifiersWithinSpread(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 11
	commodities := DefaultCommodities()

	for _, loc := range Generate(cfg, commodities) {
		if loc.FuelPrice < cfg.FuelPriceLow || loc.FuelPrice > cfg.FuelPriceHigh {
			t.Fatalf("%s: fuel price %v outside [%v,%v]", loc.ID, loc.FuelPrice, cfg.FuelPriceLow, cfg.FuelPriceHigh)
		}
		for id, m := range loc.AvailabilityModifier {
			if m <= 0 {
				t.Fatalf("%s: modifier for %q = %v", loc.ID, id, m)
			}
			lo := 1 - cfg.ModifierSpread - 0.01
			hi := 1 + cfg.ModifierSpread + 0.01
			if m < lo || m > hi {
				t.Fatalf("%s: modifier for %q = %v outside [%v,%v]", loc.ID, id, m, lo, hi)
			}
		}
	}
}
