package dodge

// Snapshot is a read-only copy of the controller for views and tests.
type Snapshot struct {
	Round            uint64
	Status           Status
	Grid             GridConfig
	Player           Position
	Enemies          []Enemy
	ActiveEnemies    int
	ElapsedSeconds   int
	Score            int
	HighScore        int
	EnemySpeed       float64
	MaxActiveEnemies int
	NextEnemyID      int
	EnemiesSpawned   int
	Pulses           uint64
}

// Snapshot returns a deep copy of the current round.
func (c *Controller) Snapshot() Snapshot {
	s := c.state.clone()
	return Snapshot{
		Round:            s.Round,
		Status:           c.status,
		Grid:             c.grid,
		Player:           s.Player,
		Enemies:          s.Enemies,
		ActiveEnemies:    ActiveEnemies(s.Enemies),
		ElapsedSeconds:   s.ElapsedSeconds,
		Score:            s.Score,
		HighScore:        s.HighScore,
		EnemySpeed:       s.EnemySpeed,
		MaxActiveEnemies: s.MaxActiveEnemies,
		NextEnemyID:      s.NextEnemyID,
		EnemiesSpawned:   s.EnemiesSpawned,
		Pulses:           c.pulses,
	}
}

// DisplayHighScore is the best score seen so far, counting the current round.
func (s Snapshot) DisplayHighScore() int {
	return max(s.Score, s.HighScore)
}
