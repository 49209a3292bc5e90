package dodge

import (
	"errors"
	"reflect"
	"testing"
)

func newTestController(t *testing.T, cfg Config, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController(cfg, opts...)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

// noSpawn keeps the board empty so rounds never end on their own.
var noSpawn = WithPeriods(Periods{Advance: 1, Tick: 20})

func pulses(c *Controller, n int) {
	for i := 0; i < n; i++ {
		c.Pulse()
	}
}

func TestNewControllerInvalid(t *testing.T) {
	cfgs := []Config{
		{GridCellCount: 0, CellSize: 25, Rules: DefaultRules()},
		{GridCellCount: 11, CellSize: -1, Rules: DefaultRules()},
		{GridCellCount: 11, CellSize: 25, Rules: Rules{BaseScore: 10}},
		{GridCellCount: 11, CellSize: 25, Rules: DefaultRules(), HighScore: -1},
	}
	for i, cfg := range cfgs {
		if _, err := NewController(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("config %d: err = %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestNewControllerMinimalConfig(t *testing.T) {
	c, err := NewController(Config{GridCellCount: 11, CellSize: 25})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	defer c.Close()
	s := c.Snapshot()
	if s.EnemySpeed != 5 || s.MaxActiveEnemies != 1 || s.HighScore != 0 {
		t.Errorf("speed=%v cap=%d high=%d, expected defaults", s.EnemySpeed, s.MaxActiveEnemies, s.HighScore)
	}
	pulses(c, 20)
	if s := c.Snapshot(); s.Score != 10 || s.ElapsedSeconds != 1 {
		t.Errorf("after one tick: score=%d elapsed=%d", s.Score, s.ElapsedSeconds)
	}
}

func TestInitialRound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighScore = 70
	c := newTestController(t, cfg)

	s := c.Snapshot()
	if s.Status != StatusRunning || s.Round != 1 {
		t.Errorf("status=%v round=%d", s.Status, s.Round)
	}
	if s.Player != (Position{Top: 125, Left: 125}) {
		t.Errorf("player at %+v", s.Player)
	}
	if s.Score != 0 || s.ElapsedSeconds != 0 || len(s.Enemies) != 0 {
		t.Errorf("round not fresh: %+v", s)
	}
	if s.HighScore != 70 || s.EnemySpeed != 5 || s.MaxActiveEnemies != 1 {
		t.Errorf("unexpected start values: %+v", s)
	}
}

func TestPlayerMovement(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)

	if !c.OnDirectionInput(DirUp) {
		t.Fatal("move up rejected")
	}
	if p := c.Snapshot().Player; p != (Position{Top: 100, Left: 125}) {
		t.Fatalf("player at %+v, want (100,125)", p)
	}
	for i := 0; i < 10; i++ {
		c.OnDirectionInput(DirUp)
	}
	if p := c.Snapshot().Player; p.Top != 0 {
		t.Fatalf("player top = %d, want 0", p.Top)
	}
	if c.OnDirectionInput(DirUp) {
		t.Error("move into the wall reported as accepted")
	}
	if c.OnDirectionInput(DirNone) {
		t.Error("DirNone accepted")
	}
}

func TestScoreAndDifficultyOverTime(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)

	pulses(c, 60)
	s := c.Snapshot()
	if s.Score != 30 || s.ElapsedSeconds != 3 || s.EnemySpeed != 5.25 {
		t.Errorf("after 3 ticks: score=%d elapsed=%d speed=%v", s.Score, s.ElapsedSeconds, s.EnemySpeed)
	}

	pulses(c, 140)
	s = c.Snapshot()
	if s.ElapsedSeconds != 10 || s.MaxActiveEnemies != 2 {
		t.Errorf("after 10 ticks: elapsed=%d cap=%d", s.ElapsedSeconds, s.MaxActiveEnemies)
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)
	last := 0
	for i := 0; i < 500; i++ {
		c.Pulse()
		if s := c.Snapshot().Score; s < last {
			t.Fatalf("pulse %d: score dropped from %d to %d", i, last, s)
		} else {
			last = s
		}
	}
}

// With one enemy allowed and the player standing still, the first enemy
// spawns on pulse 5 and reaches the player on pulse 31 from any side.
func TestRoundTerminatesOnCollision(t *testing.T) {
	c := newTestController(t, DefaultConfig())

	var results []RoundResult
	c.OnTerminate(func(r RoundResult) { results = append(results, r) })
	handle := c.Input()

	pulses(c, 5)
	s := c.Snapshot()
	if len(s.Enemies) != 1 || s.NextEnemyID != 1 {
		t.Fatalf("expected one enemy after 5 pulses, got %+v", s.Enemies)
	}
	e := s.Enemies[0]
	if e.Direction.Vertical() && e.Position.Left != 125 || !e.Direction.Vertical() && e.Position.Top != 125 {
		t.Errorf("enemy %+v not aligned with the player", e)
	}

	pulses(c, 25)
	if c.Status() != StatusRunning {
		t.Fatal("round ended early")
	}
	c.Pulse()
	if c.Status() != StatusTerminated {
		t.Fatal("round did not end on pulse 31")
	}
	if len(results) != 1 {
		t.Fatalf("listeners called %d times, want 1", len(results))
	}
	r := results[0]
	if r.Score != 10 || r.ElapsedSeconds != 1 || r.EnemiesSpawned != 1 || r.Hit.ID != 0 {
		t.Errorf("result = %+v", r)
	}
	if handle.Active() || c.OnDirectionInput(DirLeft) {
		t.Error("input still accepted after termination")
	}

	frozen := c.Snapshot()
	pulses(c, 100)
	after := c.Snapshot()
	frozen.Pulses, after.Pulses = 0, 0
	if !reflect.DeepEqual(frozen, after) {
		t.Error("terminated round kept changing")
	}
	if len(results) != 1 {
		t.Errorf("termination delivered %d times", len(results))
	}
}

func TestMoveIntoEnemyTerminates(t *testing.T) {
	c := newTestController(t, DefaultConfig())
	c.state.Enemies = []Enemy{{ID: 9, Direction: DirLeft, Position: Point{Top: 100, Left: 130}}}

	var hit Enemy
	c.OnTerminate(func(r RoundResult) { hit = r.Hit })
	c.OnDirectionInput(DirUp)
	if c.Status() != StatusTerminated || hit.ID != 9 {
		t.Errorf("status=%v hit=%d", c.Status(), hit.ID)
	}
}

func TestResetCarriesHighScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighScore = 15
	c := newTestController(t, cfg, noSpawn)

	pulses(c, 60) // score 30
	c.Reset()
	s := c.Snapshot()
	if s.HighScore != 30 || s.Score != 0 || s.Round != 2 || s.Status != StatusRunning {
		t.Errorf("after reset: %+v", s)
	}
	if s.Player != c.Grid().Center() || s.EnemySpeed != 5 || s.NextEnemyID != 0 {
		t.Errorf("round not fresh: %+v", s)
	}

	pulses(c, 20) // score 10 < 30
	c.Reset()
	if hs := c.Snapshot().HighScore; hs != 30 {
		t.Errorf("high score = %d, want 30", hs)
	}
}

func TestAutoReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoReset = true
	c := newTestController(t, cfg)

	var got []RoundResult
	c.OnTerminate(func(r RoundResult) { got = append(got, r) })

	pulses(c, 31)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	s := c.Snapshot()
	if s.Status != StatusRunning || s.Round != 2 || s.HighScore != 10 || s.Score != 0 {
		t.Errorf("after auto reset: %+v", s)
	}
	if len(s.Enemies) != 0 {
		t.Errorf("enemies leaked into the new round: %+v", s.Enemies)
	}
}

func TestStaleHandleAfterReset(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)
	old := c.Input()
	c.Reset()

	if old.Active() {
		t.Error("old handle still active")
	}
	if old.Direction(DirUp) {
		t.Error("old handle moved the player")
	}
	if p := c.Snapshot().Player; p != c.Grid().Center() {
		t.Errorf("player moved to %+v through a stale handle", p)
	}
	if !c.Input().Direction(DirUp) {
		t.Error("new handle rejected input")
	}
}

func TestReleasedHandle(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)
	h := c.Input()
	h.release()
	if h.Direction(DirDown) {
		t.Error("released handle accepted input")
	}
}

func TestClose(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)
	pulses(c, 20)
	c.Close()

	before := c.Snapshot()
	pulses(c, 100)
	if n := c.Advance(DefaultPulse * 40); n != 0 {
		t.Errorf("closed controller advanced %d pulses", n)
	}
	c.Reset()
	c.OnDirectionInput(DirUp)
	if after := c.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("closed controller changed: %+v -> %+v", before, after)
	}
}

func TestAdvanceUsesPulseLength(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)
	if n := c.Advance(DefaultPulse*20 + DefaultPulse/2); n != 20 {
		t.Fatalf("Advance ran %d pulses, want 20", n)
	}
	if s := c.Snapshot(); s.ElapsedSeconds != 1 {
		t.Errorf("elapsed = %d, want 1", s.ElapsedSeconds)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newTestController(t, DefaultConfig())
	pulses(c, 5)
	s := c.Snapshot()
	s.Enemies[0].Position.Top = 9999
	if c.Snapshot().Enemies[0].Position.Top == 9999 {
		t.Error("snapshot shares enemy storage with the controller")
	}
}

func TestActiveEnemiesNeverExceedCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoReset = true
	cfg.Seed = 3
	c := newTestController(t, cfg)

	for i := 0; i < 20000; i++ {
		c.Pulse()
		s := c.Snapshot()
		if s.ActiveEnemies > s.MaxActiveEnemies {
			t.Fatalf("pulse %d: %d active enemies with cap %d", i, s.ActiveEnemies, s.MaxActiveEnemies)
		}
		if i%7 == 0 {
			c.OnDirectionInput(Directions[(i/7)%4])
		}
	}
}

func TestDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 12345
	cfg.AutoReset = true

	run := func() (Snapshot, []RoundResult) {
		c := newTestController(t, cfg)
		var results []RoundResult
		c.OnTerminate(func(r RoundResult) { results = append(results, r) })
		for i := 0; i < 3000; i++ {
			if i%11 == 0 {
				c.OnDirectionInput(Directions[(i/11)%4])
			}
			c.Pulse()
		}
		return c.Snapshot(), results
	}

	s1, r1 := run()
	s2, r2 := run()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("results differ:\n%+v\n%+v", r1, r2)
	}
	if len(r1) == 0 {
		t.Error("expected at least one finished round")
	}
}

func TestObserveRecordsAcceptedEvents(t *testing.T) {
	c := newTestController(t, DefaultConfig(), noSpawn)
	var events []Event
	c.Observe(func(ev Event) { events = append(events, ev) })

	pulses(c, 3)
	c.OnDirectionInput(DirLeft)
	for i := 0; i < 10; i++ {
		c.OnDirectionInput(DirUp)
	}
	c.Reset()

	want := []Event{
		{Pulse: 3, Kind: EventMove, Direction: DirLeft},
		{Pulse: 3, Kind: EventMove, Direction: DirUp},
		{Pulse: 3, Kind: EventMove, Direction: DirUp},
		{Pulse: 3, Kind: EventMove, Direction: DirUp},
		{Pulse: 3, Kind: EventMove, Direction: DirUp},
		{Pulse: 3, Kind: EventMove, Direction: DirUp},
		{Pulse: 3, Kind: EventReset},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}
