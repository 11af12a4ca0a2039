package market

import (
	"errors"
	"testing"
)

func TestPressureChangeScalesWithSizeAndTier(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())
	e.AdvanceWeek()

	// ore: availability max 80, tier 2 → 1000/80 * 2/10 = 2.5
	if _, err := e.RecordTransaction("port", "ore", 1000, Sell); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
	rec, _ := e.GetInventory("port", "ore")
	if rec.MarketPressure != 2.5 {
		t.Fatalf("sell pressure = %v, want 2.5", rec.MarketPressure)
	}

	// A buy of the same size swings it back by the same amount.
	if _, err := e.RecordTransaction("port", "ore", 1000, Buy); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
	rec, _ = e.GetInventory("port", "ore")
	if rec.MarketPressure != 0 {
		t.Fatalf("pressure after offsetting buy = %v, want 0", rec.MarketPressure)
	}
}

func TestTransactionRecordsInteractionDay(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())
	for i := 0; i < 5; i++ {
		e.AdvanceWeek()
	}

	e.RecordTransaction("port", "ore", 10, Buy)
	rec, _ := e.GetInventory("port", "ore")
	if rec.LastPlayerInteraction != 5 {
		t.Fatalf("LastPlayerInteraction = %d, want 5", rec.LastPlayerInteraction)
	}
}

func TestSeasonalLockRanges(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		min, max int
	}{
		{"early year", 100, 75, 120},
		{"late year", 300, 105, 195},
		{"second year early", 365 + 100, 75, 120},
	}

	for _, tc := range tests {
		cfg := quietConfig()
		e := newTestEngine(t, cfg, testGalaxy())
		e.day = tc.day

		// Draw repeatedly; every lock length must fall inside the seasonal
		// range.
		for i := 0; i < 25; i++ {
			if _, err := e.RecordTransaction("port", "ore", 1, Buy); err != nil {
				t.Fatalf("%s: RecordTransaction: %v", tc.name, err)
			}
			rec, _ := e.GetInventory("port", "ore")
			lockLen := rec.PriceLockEndDay - tc.day
			if lockLen < tc.min || lockLen > tc.max {
				t.Fatalf("%s: lock length = %d, want within [%d,%d]", tc.name, lockLen, tc.min, tc.max)
			}
		}
	}
}

func TestBuyMovesStockAndFlagsDepletion(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())
	e.AdvanceWeek()

	rec, _ := e.GetInventory("port", "ore")
	stock := rec.Quantity
	if stock <= 0 {
		t.Fatalf("fixture stock = %v", stock)
	}

	// Partial buy: stock shrinks, no depletion.
	e.RecordTransaction("port", "ore", stock/2, Buy)
	rec, _ = e.GetInventory("port", "ore")
	if rec.Quantity != stock-stock/2 {
		t.Fatalf("stock after partial buy = %v, want %v", rec.Quantity, stock-stock/2)
	}
	if rec.IsDepleted {
		t.Fatal("partial buy flagged depletion")
	}

	// Buying out the rest flags depletion at the current day.
	e.RecordTransaction("port", "ore", rec.Quantity, Buy)
	rec, _ = e.GetInventory("port", "ore")
	if rec.Quantity != 0 {
		t.Fatalf("stock after buyout = %v, want 0", rec.Quantity)
	}
	if !rec.IsDepleted || rec.DepletionDay != 1 {
		t.Fatalf("buyout did not flag depletion: %+v", rec)
	}
}

func TestSellAddsStock(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())
	e.AdvanceWeek()

	rec, _ := e.GetInventory("port", "ore")
	before := rec.Quantity

	e.RecordTransaction("port", "ore", 25, Sell)
	rec, _ = e.GetInventory("port", "ore")
	if rec.Quantity != before+25 {
		t.Fatalf("stock after sell = %v, want %v", rec.Quantity, before+25)
	}
}

func TestTransactionValidation(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())

	if _, err := e.RecordTransaction("port", "plasma", 10, Buy); !errors.Is(err, ErrUnknownCommodity) {
		t.Fatalf("unknown commodity: err = %v", err)
	}
	if _, err := e.RecordTransaction("nowhere", "ore", 10, Buy); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("unknown location: err = %v", err)
	}
	if _, err := e.RecordTransaction("port", "ore", 10, TradeSide("short")); !errors.Is(err, ErrInvalidTradeSide) {
		t.Fatalf("invalid side: err = %v", err)
	}
}

func TestLedgerKeepsRecentTrades(t *testing.T) {
	cfg := quietConfig()
	cfg.LedgerCap = 5
	e := newTestEngine(t, cfg, testGalaxy())
	e.AdvanceWeek()

	for i := 0; i < 8; i++ {
		if _, err := e.RecordTransaction("port", "ore", float64(i+1), Sell); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	trades := e.RecentTrades(0)
	if len(trades) != 5 {
		t.Fatalf("ledger length = %d, want cap 5", len(trades))
	}
	// Newest first: quantities 8,7,6,5,4.
	if trades[0].Quantity != 8 || trades[4].Quantity != 4 {
		t.Fatalf("unexpected ledger order: first=%v last=%v", trades[0].Quantity, trades[4].Quantity)
	}
	for _, tr := range trades {
		if tr.ID == "" {
			t.Fatal("trade missing ID")
		}
	}
}
