// Package config provides YAML-based configuration loading and difficulty
// presets for the dodge game.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned (wrapped) when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// DodgeConfig contains all tunables for the dodge simulation.
type DodgeConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Scoring ScoringConfig `yaml:"scoring"`
	Enemies EnemyConfig   `yaml:"enemies"`
	Timing  TimingConfig  `yaml:"timing"`
	Round   RoundConfig   `yaml:"round"`
}

// GridConfig defines the playfield size.
type GridConfig struct {
	CellCount int `yaml:"cell_count"`
	CellSize  int `yaml:"cell_size"`
}

// ScoringConfig defines how the score grows.
type ScoringConfig struct {
	BaseScore int `yaml:"base_score"`
}

// EnemyConfig defines enemy speed and population progression.
type EnemyConfig struct {
	InitialSpeed     float64 `yaml:"initial_speed"`
	SpeedStep        float64 `yaml:"speed_step"`
	SpeedEvery       int     `yaml:"speed_every"`
	InitialMaxActive int     `yaml:"initial_max_active"`
	MaxActiveEvery   int     `yaml:"max_active_every"`
}

// TimingConfig defines the base scheduling pulse in milliseconds.
type TimingConfig struct {
	PulseMS int `yaml:"pulse_ms"`
}

// RoundConfig defines round lifecycle behavior.
type RoundConfig struct {
	AutoReset bool `yaml:"auto_reset"`
}

// Validate checks every field and reports the first bad one.
func (c DodgeConfig) Validate() error {
	switch {
	case c.Grid.CellCount <= 0:
		return fmt.Errorf("config: grid.cell_count must be positive, got %d: %w", c.Grid.CellCount, ErrInvalid)
	case c.Grid.CellSize <= 0:
		return fmt.Errorf("config: grid.cell_size must be positive, got %d: %w", c.Grid.CellSize, ErrInvalid)
	case c.Scoring.BaseScore < 0:
		return fmt.Errorf("config: scoring.base_score must not be negative: %w", ErrInvalid)
	case c.Enemies.InitialSpeed <= 0:
		return fmt.Errorf("config: enemies.initial_speed must be positive: %w", ErrInvalid)
	case c.Enemies.SpeedStep < 0:
		return fmt.Errorf("config: enemies.speed_step must not be negative: %w", ErrInvalid)
	case c.Enemies.SpeedEvery < 0 || c.Enemies.MaxActiveEvery < 0:
		return fmt.Errorf("config: enemies progression intervals must not be negative: %w", ErrInvalid)
	case c.Enemies.InitialMaxActive < 0:
		return fmt.Errorf("config: enemies.initial_max_active must not be negative: %w", ErrInvalid)
	case c.Timing.PulseMS <= 0:
		return fmt.Errorf("config: timing.pulse_ms must be positive: %w", ErrInvalid)
	}
	return nil
}
