package random

import "testing"

func TestSeededSourcesMatch(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		if x, y := a.IntRange(0, 1000), b.IntRange(0, 1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	src := New(7)
	for i := 0; i < 500; i++ {
		v := src.IntRange(5, 15)
		if v < 5 || v > 15 {
			t.Fatalf("value out of range: %d", v)
		}
	}
	if got := src.IntRange(3, 3); got != 3 {
		t.Fatalf("degenerate range returned %d", got)
	}
}

func TestWeightedFavoursHeavyBucket(t *testing.T) {
	src := New(1)
	counts := make([]int, 4)
	for i := 0; i < 2000; i++ {
		counts[src.Weighted([]float64{0.7, 0.1, 0.1, 0.1})]++
	}
	if counts[0] < counts[1] || counts[0] < counts[2] || counts[0] < counts[3] {
		t.Fatalf("expected first bucket to dominate: %v", counts)
	}
}

func TestChanceExtremes(t *testing.T) {
	src := New(3)
	for i := 0; i < 100; i++ {
		if src.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !src.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}
