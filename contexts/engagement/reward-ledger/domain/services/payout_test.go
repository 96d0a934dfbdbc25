package services

import "testing"

func TestXPForWindowCountTiers(t *testing.T) {
	cases := []struct {
		count int
		xp    int
	}{
		{0, 20}, {1, 20}, {4, 20},
		{5, 15},
		{6, 10},
		{7, 5},
		{8, 0}, {9, 0}, {100, 0},
	}
	for _, tc := range cases {
		xp, message := XPForWindowCount(tc.count)
		if xp != tc.xp {
			t.Fatalf("count %d: expected %d xp, got %d", tc.count, tc.xp, xp)
		}
		if tc.xp == 0 && message != DailyLimitMessage {
			t.Fatalf("count %d: expected daily limit message", tc.count)
		}
		if tc.xp > 0 && message != "" {
			t.Fatalf("count %d: unexpected message %q", tc.count, message)
		}
	}
}
