package model

import "testing"

func TestRange(t *testing.T) {
	tests := []struct {
		a, b Pos
		want int
	}{
		{Pos{0, 0}, Pos{0, 0}, 0},
		{Pos{10, 10}, Pos{11, 11}, 1},
		{Pos{10, 10}, Pos{13, 11}, 3},
		{Pos{5, 20}, Pos{5, 12}, 8},
		{Pos{40, 3}, Pos{38, 7}, 4},
	}
	for _, tc := range tests {
		if got := Range(tc.a, tc.b); got != tc.want {
			t.Errorf("Range(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Range(tc.b, tc.a); got != tc.want {
			t.Errorf("Range is not symmetric for %v, %v: got %d", tc.b, tc.a, got)
		}
	}
}

func TestInRange(t *testing.T) {
	if !InRange(Pos{10, 10}, Pos{12, 8}, 2) {
		t.Error("expected (12,8) within 2 of (10,10)")
	}
	if InRange(Pos{10, 10}, Pos{13, 10}, 2) {
		t.Error("expected (13,10) outside 2 of (10,10)")
	}
}

func TestStoreFree(t *testing.T) {
	if got := (Store{Used: 20, Capacity: 50}).Free(); got != 30 {
		t.Errorf("Free() = %d, want 30", got)
	}
	// Overfilled stores never report negative space.
	if got := (Store{Used: 60, Capacity: 50}).Free(); got != 0 {
		t.Errorf("Free() = %d, want 0", got)
	}
}

func TestControllerProgressRatio(t *testing.T) {
	c := Controller{Progress: 900, ProgressTotal: 1000}
	if got := c.ProgressRatio(); got != 0.9 {
		t.Errorf("ProgressRatio() = %v, want 0.9", got)
	}
	maxed := Controller{Level: 8}
	if got := maxed.ProgressRatio(); got != 0 {
		t.Errorf("ProgressRatio() on max level = %v, want 0", got)
	}
}
