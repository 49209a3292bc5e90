package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Platform ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // tui.NewModel replaces 0 with the current time; games use it as given
	}
}

// FrameDuration returns the wall time covered by one platform tick.
func (c RuntimeConfig) FrameDuration() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score seen by this game instance
	GameOver  bool // Whether the current round has ended and awaits restart
	Paused    bool // Whether the game is paused
}

// RoundSummary describes a round that ended during a tick.
type RoundSummary struct {
	Round          uint64
	Score          int
	ElapsedSeconds int
	EnemiesSpawned int
	FinalSpeed     float64
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any rounds that finished during the tick.
type StepResult struct {
	State    GameState
	Finished []RoundSummary
}
