package market

import (
	"math"
	"testing"
)

func TestSkewedRandomBoundsAndIntegrality(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())

	for i := 0; i < 1000; i++ {
		v := e.skewedRandom(40, 80)
		if v < 40 || v > 80 {
			t.Fatalf("draw %d: %v outside [40,80]", i, v)
		}
		if v != math.Floor(v) {
			t.Fatalf("draw %d: %v not a whole number", i, v)
		}
	}
}

func TestIntBetweenInclusive(t *testing.T) {
	e := newTestEngine(t, quietConfig(), testGalaxy())

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := e.intBetween(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("draw %d: %d outside [3,5]", i, v)
		}
		seen[v] = true
	}
	for want := 3; want <= 5; want++ {
		if !seen[want] {
			t.Fatalf("value %d never drawn", want)
		}
	}
}
