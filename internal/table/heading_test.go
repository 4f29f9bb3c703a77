package table

import "testing"

func TestAdjustHeading(t *testing.T) {
	tests := []struct {
		name       string
		old, index int
		delta      int
		want       int
	}{
		{"insert inside band", 2, 0, +1, 3},
		{"insert at last heading", 2, 1, +1, 3},
		{"insert at boundary", 2, 2, +1, 2},
		{"insert past band", 2, 5, +1, 2},
		{"no band", 0, 0, +1, 0},
		{"remove inside band", 2, 1, -1, 1},
		{"remove at boundary", 2, 2, -1, 2},
		{"remove only heading", 1, 0, -1, 0},
		{"negative index", 3, -1, +1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustHeading(tt.old, tt.index, tt.delta); got != tt.want {
				t.Errorf("AdjustHeading(%d, %d, %d) = %d, want %d",
					tt.old, tt.index, tt.delta, got, tt.want)
			}
		})
	}
}
