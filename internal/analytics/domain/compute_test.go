package domain

import "testing"

func TestTrendDelta(t *testing.T) {
	cases := []struct {
		name    string
		prior   float64
		current float64
		want    float64
	}{
		{"both zero", 0, 0, 0},
		{"from zero is full swing", 0, 5, 100},
		{"halved", 10, 5, -50},
		{"doubled", 4, 8, 100},
		{"dropped to zero", 3, 0, -100},
	}
	for _, tc := range cases {
		if got := TrendDelta(tc.prior, tc.current); got != tc.want {
			t.Fatalf("%s: TrendDelta(%v, %v) = %v, want %v", tc.name, tc.prior, tc.current, got, tc.want)
		}
	}
}

func TestRateZeroDenominator(t *testing.T) {
	if got := Rate(5, 0); got != 0 {
		t.Fatalf("Rate(5, 0) = %v, want 0", got)
	}
}

func TestRate(t *testing.T) {
	if got := Rate(1, 4); got != 25 {
		t.Fatalf("Rate(1, 4) = %v, want 25", got)
	}
	if got := Rate(0, 9); got != 0 {
		t.Fatalf("Rate(0, 9) = %v, want 0", got)
	}
}
