package model

// Pos is a tile coordinate inside the colony's room.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Range is the host's tile distance: diagonal steps cost the same as
// straight ones, so it is the larger of the two axis deltas.
func Range(a, b Pos) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// InRange reports whether b is within r tiles of a.
func InRange(a, b Pos, r int) bool {
	return Range(a, b) <= r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
