package dodge

import "math/rand"

// Enemy is a token travelling in a straight line across the board.
type Enemy struct {
	ID        int
	Direction Direction // side it entered from, which is also its heading
	Position  Point
	Removed   bool // out of bounds; dropped on the next advance
}

// SpawnEnemy places a new enemy on the edge opposite its heading, lined up with
// the player on the perpendicular axis so its path crosses the player's cell.
func SpawnEnemy(grid GridConfig, player Position, id int, side Direction) Enemy {
	extent := float64(grid.Extent)
	outside := -float64(grid.CellSize)
	e := Enemy{ID: id, Direction: side}

	switch side {
	case DirUp:
		e.Position = Point{Top: extent, Left: float64(player.Left)}
	case DirDown:
		e.Position = Point{Top: outside, Left: float64(player.Left)}
	case DirLeft:
		e.Position = Point{Top: float64(player.Top), Left: extent}
	case DirRight:
		e.Position = Point{Top: float64(player.Top), Left: outside}
	}
	return e
}

// Spawner rolls approach sides from a seeded source.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a spawner whose side sequence is fixed by seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{rng: rand.New(rand.NewSource(seed))}
}

// Side picks an approach side uniformly.
func (s *Spawner) Side() Direction {
	return Directions[s.rng.Intn(len(Directions))]
}

// Spawn creates the next enemy for state and appends it.
func (s *Spawner) Spawn(state *RoundState, grid GridConfig) Enemy {
	e := SpawnEnemy(grid, state.Player, state.NextEnemyID, s.Side())

	state.Enemies = append(state.Enemies, e)
	state.NextEnemyID++
	state.EnemiesSpawned++
	return e
}
