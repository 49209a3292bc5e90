package config

import (
	_ "embed"
)

//go:embed defaults/dodge.yaml
var defaultDodgeYAML []byte

// DefaultDodgeConfig returns the built-in configuration.
// It mirrors defaults/dodge.yaml and is used when the embedded file cannot be parsed.
func DefaultDodgeConfig() DodgeConfig {
	return DodgeConfig{
		Grid: GridConfig{
			CellCount: 11,
			CellSize:  25,
		},
		Scoring: ScoringConfig{
			BaseScore: 10,
		},
		Enemies: EnemyConfig{
			InitialSpeed:     5,
			SpeedStep:        0.25,
			SpeedEvery:       3,
			InitialMaxActive: 1,
			MaxActiveEvery:   10,
		},
		Timing: TimingConfig{
			PulseMS: 50,
		},
		Round: RoundConfig{
			AutoReset: true,
		},
	}
}
