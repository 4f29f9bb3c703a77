package table

// AdjustHeading returns the heading band size after a row or column was
// inserted (delta +1) or removed (delta -1) at index. The band only changes
// when index lies inside it; an edit at or past the boundary leaves it alone.
func AdjustHeading(old, index, delta int) int {
	if index < 0 || index >= old {
		return old
	}
	n := old + delta
	if n < 0 {
		return 0
	}
	return n
}
