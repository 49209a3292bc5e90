package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed): %w", s, ErrInvalid)
	}
}

// ApplyPreset adjusts enemy progression for a preset.
// Normal leaves the loaded values untouched; fixed turns progression off.
func ApplyPreset(cfg *DodgeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Enemies.InitialSpeed = 4
		cfg.Enemies.SpeedEvery = 4
		cfg.Enemies.MaxActiveEvery = 15
	case DifficultyHard:
		cfg.Enemies.InitialSpeed = 6
		cfg.Enemies.InitialMaxActive = 2
		cfg.Enemies.MaxActiveEvery = 8
	case DifficultyFixed:
		cfg.Enemies.SpeedEvery = 0
		cfg.Enemies.MaxActiveEvery = 0
	}
}
