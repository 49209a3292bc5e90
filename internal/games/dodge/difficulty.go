package dodge

import (
	"fmt"
	"math"
)

// Rules control scoring and difficulty progression.
// A zero SpeedEvery or MaxActiveEvery disables that progression.
type Rules struct {
	BaseScore        int     `msgpack:"base_score"`
	InitialSpeed     float64 `msgpack:"initial_speed"`
	SpeedStep        float64 `msgpack:"speed_step"`
	SpeedEvery       int     `msgpack:"speed_every"`
	InitialMaxActive int     `msgpack:"initial_max_active"`
	MaxActiveEvery   int     `msgpack:"max_active_every"`
}

// DefaultRules returns the classic pacing: 10 points a second, speed 5 rising
// by 0.25 every 3 seconds, one enemy at a time plus one more every 10 seconds.
func DefaultRules() Rules {
	return Rules{
		BaseScore:        10,
		InitialSpeed:     5,
		SpeedStep:        0.25,
		SpeedEvery:       3,
		InitialMaxActive: 1,
		MaxActiveEvery:   10,
	}
}

func (r Rules) validate() error {
	switch {
	case r.BaseScore < 0:
		return fmt.Errorf("%w: base score must not be negative", ErrInvalidConfig)
	case r.InitialSpeed <= 0:
		return fmt.Errorf("%w: initial speed must be positive", ErrInvalidConfig)
	case r.SpeedStep < 0:
		return fmt.Errorf("%w: speed step must not be negative", ErrInvalidConfig)
	case r.SpeedEvery < 0 || r.MaxActiveEvery < 0:
		return fmt.Errorf("%w: progression intervals must not be negative", ErrInvalidConfig)
	case r.InitialMaxActive < 0:
		return fmt.Errorf("%w: initial enemy cap must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Progress is the part of a round the tick trigger owns.
type Progress struct {
	ElapsedSeconds   int
	Score            int
	EnemySpeed       float64
	MaxActiveEnemies int
}

// Tick applies one elapsed second to p and returns the result.
// Speed is accumulated step by step and rounded to two decimals each time.
func (r Rules) Tick(p Progress) Progress {
	p.ElapsedSeconds++
	p.Score += r.BaseScore

	if r.SpeedEvery > 0 && p.ElapsedSeconds%r.SpeedEvery == 0 {
		p.EnemySpeed = roundSpeed(p.EnemySpeed + r.SpeedStep)
	}
	if r.MaxActiveEvery > 0 && p.ElapsedSeconds%r.MaxActiveEvery == 0 {
		p.MaxActiveEnemies++
	}
	return p
}

func roundSpeed(v float64) float64 {
	return math.Round(v*100) / 100
}
