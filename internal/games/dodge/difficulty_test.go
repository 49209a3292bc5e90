package dodge

import (
	"math"
	"testing"
)

func runTicks(r Rules, n int) Progress {
	p := Progress{EnemySpeed: r.InitialSpeed, MaxActiveEnemies: r.InitialMaxActive}
	for i := 0; i < n; i++ {
		p = r.Tick(p)
	}
	return p
}

func TestTickProgression(t *testing.T) {
	r := DefaultRules()

	p := runTicks(r, 2)
	if p.EnemySpeed != 5 {
		t.Errorf("speed after 2 ticks = %v, want 5", p.EnemySpeed)
	}

	p = runTicks(r, 3)
	if p.Score != 30 || p.ElapsedSeconds != 3 || p.EnemySpeed != 5.25 {
		t.Errorf("after 3 ticks: %+v", p)
	}
	if p.MaxActiveEnemies != 1 {
		t.Errorf("cap after 3 ticks = %d, want 1", p.MaxActiveEnemies)
	}

	p = runTicks(r, 9)
	if p.MaxActiveEnemies != 1 {
		t.Errorf("cap after 9 ticks = %d, want 1", p.MaxActiveEnemies)
	}

	p = runTicks(r, 10)
	if p.MaxActiveEnemies != 2 {
		t.Errorf("cap after 10 ticks = %d, want 2", p.MaxActiveEnemies)
	}
	if p.Score != 100 || p.EnemySpeed != 5.75 {
		t.Errorf("after 10 ticks: %+v", p)
	}
}

func TestTickMatchesClosedForm(t *testing.T) {
	r := DefaultRules()
	p := Progress{EnemySpeed: r.InitialSpeed, MaxActiveEnemies: r.InitialMaxActive}
	for i := 1; i <= 600; i++ {
		p = r.Tick(p)
		want := 5 + 0.25*math.Floor(float64(i)/3)
		if p.EnemySpeed != want {
			t.Fatalf("tick %d: speed %v, want %v", i, p.EnemySpeed, want)
		}
	}
}

func TestTickRoundsOddSteps(t *testing.T) {
	r := DefaultRules()
	r.SpeedStep = 0.1
	r.SpeedEvery = 1
	p := runTicks(r, 3)
	if p.EnemySpeed != 5.3 {
		t.Errorf("speed = %v, want 5.3", p.EnemySpeed)
	}
}

func TestTickFixedRules(t *testing.T) {
	r := DefaultRules()
	r.SpeedEvery = 0
	r.MaxActiveEvery = 0
	p := runTicks(r, 60)
	if p.EnemySpeed != r.InitialSpeed || p.MaxActiveEnemies != r.InitialMaxActive {
		t.Errorf("fixed rules progressed: %+v", p)
	}
	if p.Score != 600 {
		t.Errorf("score = %d, want 600", p.Score)
	}
}

func TestRulesValidate(t *testing.T) {
	bad := []func(*Rules){
		func(r *Rules) { r.BaseScore = -1 },
		func(r *Rules) { r.InitialSpeed = 0 },
		func(r *Rules) { r.SpeedStep = -0.5 },
		func(r *Rules) { r.SpeedEvery = -3 },
		func(r *Rules) { r.InitialMaxActive = -1 },
	}
	for i, mutate := range bad {
		r := DefaultRules()
		mutate(&r)
		if err := r.validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
	if err := DefaultRules().validate(); err != nil {
		t.Errorf("default rules invalid: %v", err)
	}
}
