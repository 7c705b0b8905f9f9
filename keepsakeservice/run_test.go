package keepsakeservice

import "testing"

func TestCalculateStartupHealthTimeout(t *testing.T) {
	cases := []struct {
		interval int
		want     int
	}{
		{5, 60},
		{30, 60},
		{45, 90},
		{120, 240},
	}
	for _, tc := range cases {
		if got := calculateStartupHealthTimeout(tc.interval); got != tc.want {
			t.Errorf("calculateStartupHealthTimeout(%d) = %d, want %d", tc.interval, got, tc.want)
		}
	}
}
