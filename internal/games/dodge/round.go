package dodge

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPulse is the length of one scheduler pulse. A tick is 20 pulses.
const DefaultPulse = 50 * time.Millisecond

// Status is the round state machine position.
type Status int

const (
	StatusRunning Status = iota
	StatusTerminated
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusTerminated {
		return "terminated"
	}
	return "running"
}

// RoundState is everything that changes during a round.
type RoundState struct {
	Round            uint64
	Player           Position
	Enemies          []Enemy // spawn order
	ElapsedSeconds   int
	Score            int
	HighScore        int
	EnemySpeed       float64
	MaxActiveEnemies int
	NextEnemyID      int
	EnemiesSpawned   int
}

func (s RoundState) clone() RoundState {
	if s.Enemies != nil {
		s.Enemies = append([]Enemy(nil), s.Enemies...)
	}
	return s
}

// RoundResult is delivered to termination listeners.
type RoundResult struct {
	Round          uint64   `msgpack:"round"`
	Score          int      `msgpack:"score"`
	HighScore      int      `msgpack:"high_score"` // including this round
	ElapsedSeconds int      `msgpack:"elapsed"`
	EnemiesSpawned int      `msgpack:"spawned"`
	FinalSpeed     float64  `msgpack:"speed"`
	Player         Position `msgpack:"player"`
	Hit            Enemy    `msgpack:"hit"`
}

// Config holds everything needed to start a round.
type Config struct {
	GridCellCount int
	CellSize      int
	HighScore     int // carried in from earlier rounds, never loaded from disk
	Rules         Rules
	Pulse         time.Duration // zero means DefaultPulse
	Seed          int64
	AutoReset     bool // start the next round as soon as one ends
}

// DefaultConfig returns an 11x11 board of 25 pixel cells with default rules.
func DefaultConfig() Config {
	return Config{
		GridCellCount: 11,
		CellSize:      25,
		Rules:         DefaultRules(),
		Pulse:         DefaultPulse,
	}
}

// EventKind tags a recorded external event.
type EventKind int

const (
	EventMove EventKind = iota
	EventReset
)

// Event is an external call that changed the controller, stamped with the
// number of pulses processed before it.
type Event struct {
	Pulse     uint64
	Kind      EventKind
	Direction Direction
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for round lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPeriods overrides the trigger periods.
func WithPeriods(p Periods) Option {
	return func(c *Controller) {
		c.periods = p
	}
}

// Controller owns one game session: the current round, its scheduler and its
// input handle. It is not safe for concurrent use; one goroutine drives it.
type Controller struct {
	grid      GridConfig
	rules     Rules
	periods   Periods
	spawner   *Spawner
	clock     *Clock
	autoReset bool
	logger    *log.Logger

	state  RoundState
	status Status
	sched  *Scheduler
	input  *InputHandle
	pulses uint64
	closed bool

	listeners []func(RoundResult)
	observers []func(Event)
}

// NewController validates cfg and starts the first round.
// A zero Rules means DefaultRules and a zero Pulse means DefaultPulse.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	grid, err := NewGridConfig(cfg.GridCellCount, cfg.CellSize)
	if err != nil {
		return nil, err
	}
	if cfg.Rules == (Rules{}) {
		cfg.Rules = DefaultRules()
	}
	if err := cfg.Rules.validate(); err != nil {
		return nil, err
	}
	if cfg.Pulse < 0 {
		return nil, fmt.Errorf("%w: pulse must not be negative", ErrInvalidConfig)
	}
	if cfg.HighScore < 0 {
		return nil, fmt.Errorf("%w: high score must not be negative", ErrInvalidConfig)
	}
	pulse := cfg.Pulse
	if pulse == 0 {
		pulse = DefaultPulse
	}

	c := &Controller{
		grid:      grid,
		rules:     cfg.Rules,
		periods:   DefaultPeriods(),
		spawner:   NewSpawner(cfg.Seed),
		clock:     NewClock(pulse),
		autoReset: cfg.AutoReset,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start(cfg.HighScore)
	return c, nil
}

func (c *Controller) start(highScore int) {
	round := c.state.Round + 1
	c.state = RoundState{
		Round:            round,
		Player:           c.grid.Center(),
		HighScore:        highScore,
		EnemySpeed:       c.rules.InitialSpeed,
		MaxActiveEnemies: c.rules.InitialMaxActive,
	}
	c.status = StatusRunning
	c.sched = NewScheduler(c.periods, Handlers{
		Advance:    c.guard(round, c.advance),
		Tick:       c.guard(round, c.tick),
		SpawnCheck: c.guard(round, c.spawnCheck),
	})
	c.input = &InputHandle{c: c, round: round}
	c.logger.Debug("round started", "round", round, "high_score", highScore)
}

// guard binds a trigger to its round so it can never touch a later one.
func (c *Controller) guard(round uint64, fn func()) func() {
	return func() {
		if c.closed || c.status != StatusRunning || c.state.Round != round {
			return
		}
		fn()
	}
}

func (c *Controller) advance() {
	c.state.Enemies = AdvanceEnemies(c.grid, c.state.Enemies, c.state.EnemySpeed)
	c.checkCollision()
}

func (c *Controller) tick() {
	p := c.rules.Tick(Progress{
		ElapsedSeconds:   c.state.ElapsedSeconds,
		Score:            c.state.Score,
		EnemySpeed:       c.state.EnemySpeed,
		MaxActiveEnemies: c.state.MaxActiveEnemies,
	})
	c.state.ElapsedSeconds = p.ElapsedSeconds
	c.state.Score = p.Score
	c.state.EnemySpeed = p.EnemySpeed
	c.state.MaxActiveEnemies = p.MaxActiveEnemies
}

func (c *Controller) spawnCheck() {
	if ActiveEnemies(c.state.Enemies) >= c.state.MaxActiveEnemies {
		return
	}
	e := c.spawner.Spawn(&c.state, c.grid)
	c.logger.Debug("enemy spawned", "round", c.state.Round, "id", e.ID, "side", e.Direction)
	c.checkCollision()
}

func (c *Controller) checkCollision() {
	if c.status != StatusRunning {
		return
	}
	if hit, ok := firstHit(c.state.Player, c.state.Enemies, c.grid.CellSize); ok {
		c.terminate(hit)
	}
}

func (c *Controller) terminate(hit Enemy) {
	c.status = StatusTerminated
	c.sched.Cancel()
	c.input.release()

	res := RoundResult{
		Round:          c.state.Round,
		Score:          c.state.Score,
		HighScore:      max(c.state.Score, c.state.HighScore),
		ElapsedSeconds: c.state.ElapsedSeconds,
		EnemiesSpawned: c.state.EnemiesSpawned,
		FinalSpeed:     c.state.EnemySpeed,
		Player:         c.state.Player,
		Hit:            hit,
	}
	c.logger.Debug("round ended",
		"round", res.Round,
		"score", res.Score,
		"elapsed", res.ElapsedSeconds,
		"enemy", hit.ID)

	for _, fn := range append([]func(RoundResult){}, c.listeners...) {
		fn(res)
	}
	if c.autoReset && !c.closed && c.state.Round == res.Round {
		c.reset()
	}
}

// Reset ends the current round, running or not, and starts a new one with the
// high score carried over. Any outstanding input handle stops working.
func (c *Controller) Reset() {
	if c.closed {
		return
	}
	c.notify(Event{Kind: EventReset})
	c.reset()
}

func (c *Controller) reset() {
	high := max(c.state.Score, c.state.HighScore)
	c.sched.Cancel()
	c.input.release()
	c.start(high)
}

// Close cancels the round's triggers and releases its input handle.
// A closed controller ignores all further calls.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.sched.Cancel()
	c.input.release()
}

// OnTerminate registers fn to be called with the result of every round that ends.
func (c *Controller) OnTerminate(fn func(RoundResult)) {
	c.listeners = append(c.listeners, fn)
}

// Observe registers fn to be called for every accepted external event.
func (c *Controller) Observe(fn func(Event)) {
	c.observers = append(c.observers, fn)
}

func (c *Controller) notify(ev Event) {
	ev.Pulse = c.pulses
	for _, fn := range c.observers {
		fn(ev)
	}
}

// Input returns the handle for the current round.
func (c *Controller) Input() *InputHandle {
	return c.input
}

// OnDirectionInput forwards dir to the current round's input handle.
func (c *Controller) OnDirectionInput(dir Direction) bool {
	return c.input.Direction(dir)
}

// Pulse processes a single scheduler pulse. Pulses are counted while a round
// waits for a manual reset so recorded event times stay comparable.
func (c *Controller) Pulse() []Trigger {
	if c.closed {
		return nil
	}
	c.pulses++
	return c.sched.Pulse()
}

// Advance converts elapsed wall time into pulses and runs them.
// It returns the number of pulses processed.
func (c *Controller) Advance(d time.Duration) int {
	if c.closed {
		return 0
	}
	n := c.clock.Advance(d)
	for i := 0; i < n; i++ {
		c.Pulse()
	}
	return n
}

// Pulses returns the number of pulses processed over the controller's life.
func (c *Controller) Pulses() uint64 {
	return c.pulses
}

// Status returns the current round status.
func (c *Controller) Status() Status {
	return c.status
}

// Grid returns the board geometry.
func (c *Controller) Grid() GridConfig {
	return c.grid
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	return c.closed
}

// InputHandle accepts direction input for exactly one round.
type InputHandle struct {
	c        *Controller
	round    uint64
	released bool
}

// Direction moves the player one cell. It reports whether the player moved.
// Input on a released handle, an ended round or an invalid direction is ignored.
func (h *InputHandle) Direction(dir Direction) bool {
	if h == nil || !h.Active() || !dir.Valid() {
		return false
	}
	c := h.c
	next := MovePlayer(c.grid, c.state.Player, dir)
	if next == c.state.Player {
		return false
	}
	c.state.Player = next
	c.notify(Event{Kind: EventMove, Direction: dir})
	c.checkCollision()
	return true
}

// Active reports whether the handle still belongs to a running round.
func (h *InputHandle) Active() bool {
	return !h.released && !h.c.closed && h.c.status == StatusRunning && h.c.state.Round == h.round
}

// release detaches the handle. Further input is ignored.
func (h *InputHandle) release() {
	if h != nil {
		h.released = true
	}
}
