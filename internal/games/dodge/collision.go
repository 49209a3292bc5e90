package dodge

import "math"

// Collides reports whether two cellSize squares overlap.
// Touching edges do not count; coincident squares always do.
func Collides(a, b Point, cellSize int) bool {
	size := float64(cellSize)
	return math.Abs(a.Top-b.Top) < size && math.Abs(a.Left-b.Left) < size
}

// firstHit returns the first enemy overlapping the player, in spawn order.
func firstHit(player Position, enemies []Enemy, cellSize int) (Enemy, bool) {
	p := player.Point()
	for _, e := range enemies {
		if Collides(p, e.Position, cellSize) {
			return e, true
		}
	}
	return Enemy{}, false
}
