package dodge

// MovePlayer steps the player one cell along dir.
// A step that would leave the board, or an invalid direction, returns p unchanged.
func MovePlayer(grid GridConfig, p Position, dir Direction) Position {
	if !dir.Valid() {
		return p
	}
	v := dir.Vector()
	next := Position{
		Top:  p.Top + v.DTop*grid.CellSize,
		Left: p.Left + v.DLeft*grid.CellSize,
	}
	limit := grid.MaxCoord()
	if next.Top < 0 || next.Top > limit || next.Left < 0 || next.Left > limit {
		return p
	}
	return next
}

// AdvanceEnemies returns the enemy list after one enemy-advance pulse.
// Enemies marked on the previous pass are dropped, the rest move speed pixels
// along their direction, and any that end up beyond one cell outside the board
// on their travel axis are marked Removed. Marked enemies stay in the result for
// exactly one pass so the view can draw their last frame.
// The input slice is not modified.
func AdvanceEnemies(grid GridConfig, enemies []Enemy, speed float64) []Enemy {
	out := make([]Enemy, 0, len(enemies))
	lo := -float64(grid.CellSize)
	hi := float64(grid.Extent + grid.CellSize)

	for _, e := range enemies {
		if e.Removed {
			continue
		}
		v := e.Direction.Vector()
		e.Position.Top += float64(v.DTop) * speed
		e.Position.Left += float64(v.DLeft) * speed

		coord := e.Position.Left
		if e.Direction.Vertical() {
			coord = e.Position.Top
		}
		if coord < lo || coord > hi {
			e.Removed = true
		}
		out = append(out, e)
	}
	return out
}

// ActiveEnemies counts enemies that are not marked for removal.
func ActiveEnemies(enemies []Enemy) int {
	n := 0
	for _, e := range enemies {
		if !e.Removed {
			n++
		}
	}
	return n
}
