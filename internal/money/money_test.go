package money

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.005, 10.01},
		{10.004, 10.0},
		{0.1 + 0.2, 0.3},
		{-2.675, -2.68},
		{0, 0},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestApplyPercent(t *testing.T) {
	cases := []struct {
		value, pct, want float64
	}{
		{100, 10, 110},
		{100, -10, 90},
		{33.33, 21, 40.33},
		{0, 50, 0},
	}
	for _, c := range cases {
		if got := ApplyPercent(c.value, c.pct); got != c.want {
			t.Errorf("ApplyPercent(%v, %v) = %v, want %v", c.value, c.pct, got, c.want)
		}
	}
}

func TestApplyFixedFloorsAtZero(t *testing.T) {
	if got := ApplyFixed(30, -50); got != 0 {
		t.Fatalf("ApplyFixed(30, -50) = %v, want 0", got)
	}
	if got := ApplyFixed(30, -10); got != 20 {
		t.Fatalf("ApplyFixed(30, -10) = %v, want 20", got)
	}
	if got := ApplyFixed(19.99, 0.011); got != 20 {
		t.Fatalf("ApplyFixed(19.99, 0.011) = %v, want 20", got)
	}
}

func TestSplitEvenSumsExactly(t *testing.T) {
	cases := []struct {
		total float64
		n     int
	}{
		{1100, 3},
		{100, 7},
		{0.01, 3},
		{999.99, 12},
	}
	for _, c := range cases {
		parts := SplitEven(c.total, c.n)
		if len(parts) != c.n {
			t.Fatalf("SplitEven(%v, %d): got %d parts", c.total, c.n, len(parts))
		}
		var sum float64
		for _, p := range parts {
			sum += p
		}
		if math.Abs(Round2(sum)-c.total) > 0.001 {
			t.Errorf("SplitEven(%v, %d): parts sum to %v", c.total, c.n, sum)
		}
	}
}

func TestToBase(t *testing.T) {
	cases := []struct {
		qty      float64
		unit     Unit
		wantQty  float64
		wantUnit Unit
	}{
		{1500, UnitGram, 1.5, UnitKilogram},
		{250, UnitMilliliter, 0.25, UnitLiter},
		{30, UnitCentimeter, 0.3, UnitMeter},
		{3, UnitPiece, 3, UnitPiece},
		{2, UnitKilogram, 2, UnitKilogram},
	}
	for _, c := range cases {
		q, u := ToBase(c.qty, c.unit)
		if q != c.wantQty || u != c.wantUnit {
			t.Errorf("ToBase(%v, %s) = (%v, %s), want (%v, %s)", c.qty, c.unit, q, u, c.wantQty, c.wantUnit)
		}
	}
}

func TestDisplayKey(t *testing.T) {
	if got := DisplayKey("Remera", "M", "Azul", UnitPiece); got != "Remera M Azul" {
		t.Errorf("DisplayKey = %q", got)
	}
	if got := DisplayKey("Harina", "", "", UnitKilogram); got != "Harina kg" {
		t.Errorf("DisplayKey = %q", got)
	}
}
