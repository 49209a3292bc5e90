package dodge

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/registry"
)

// GameID is the registry identifier.
const GameID = "dodge"

// Visual characters for rendering. Each board cell is two columns wide.
const (
	cellWidth   = 2
	PlayerGlyph = "██"
	EnemyGlyph  = "▓▓"
)

// Package-level settings applied by New, set from CLI flags.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets the config file used by games created with New.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the preset used by games created with New.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// LoadConfig resolves a config file and a difficulty preset into a round config.
func LoadConfig(path, preset string) (Config, error) {
	dc, err := config.LoadDodge(path)
	if err != nil {
		return Config{}, err
	}
	p, err := config.ParsePreset(preset)
	if err != nil {
		return Config{}, err
	}
	config.ApplyPreset(&dc, p)
	if err := dc.Validate(); err != nil {
		return Config{}, err
	}
	return FromConfig(dc), nil
}

// FromConfig converts the file representation into a round config.
func FromConfig(dc config.DodgeConfig) Config {
	return Config{
		GridCellCount: dc.Grid.CellCount,
		CellSize:      dc.Grid.CellSize,
		Rules: Rules{
			BaseScore:        dc.Scoring.BaseScore,
			InitialSpeed:     dc.Enemies.InitialSpeed,
			SpeedStep:        dc.Enemies.SpeedStep,
			SpeedEvery:       dc.Enemies.SpeedEvery,
			InitialMaxActive: dc.Enemies.InitialMaxActive,
			MaxActiveEvery:   dc.Enemies.MaxActiveEvery,
		},
		Pulse:     time.Duration(dc.Timing.PulseMS) * time.Millisecond,
		AutoReset: dc.Round.AutoReset,
	}
}

func init() {
	registry.Register(GameID, "Dodge", func() registry.Game {
		return New()
	})
}

// Game adapts a Controller to the platform's frame-based game contract.
type Game struct {
	cfg       Config
	loaded    bool
	logger    *log.Logger
	ctrl      *Controller
	runtime   core.RuntimeConfig
	paused    bool
	tooSmall  bool
	highScore int
	finished  []core.RoundSummary

	record   bool
	recorder *Recorder
}

// New creates a game that loads its config from the package settings on Reset.
func New() *Game {
	return &Game{logger: log.New(io.Discard)}
}

// NewWithConfig creates a game with an explicit config.
func NewWithConfig(cfg Config) *Game {
	return &Game{cfg: cfg, loaded: true, logger: log.New(io.Discard)}
}

// SetLogger sets the logger handed to controllers.
func (g *Game) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// EnableRecording records every controller created by later Resets.
func (g *Game) EnableRecording() {
	g.record = true
}

// Recording returns the recording of the current controller.
func (g *Game) Recording() (Recording, bool) {
	if g.recorder == nil {
		return Recording{}, false
	}
	return g.recorder.Recording(), true
}

// Controller exposes the underlying controller.
func (g *Game) Controller() *Controller {
	return g.ctrl
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Dodge"
}

// Reset starts a fresh controller seeded with rc.Seed.
// The seed is used as given, so a zero seed always plays the same rounds;
// callers that want a random game pick the seed themselves, as tui.NewModel does.
// The in-memory high score survives.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	if !g.loaded {
		cfg, err := LoadConfig(configPath, difficultyPreset)
		if err != nil {
			g.logger.Warn("falling back to default dodge config", "err", err)
			cfg = DefaultConfig()
			cfg.AutoReset = true
		}
		g.cfg = cfg
		g.loaded = true
	}

	if g.ctrl != nil {
		g.highScore = max(g.highScore, g.ctrl.Snapshot().DisplayHighScore())
		g.ctrl.Close()
	}

	cfg := g.cfg
	cfg.Seed = rc.Seed
	cfg.HighScore = max(cfg.HighScore, g.highScore)

	ctrl, err := NewController(cfg, WithLogger(g.logger))
	if err != nil {
		g.logger.Error("invalid dodge config, using defaults", "err", err)
		cfg = DefaultConfig()
		cfg.Seed = rc.Seed
		cfg.HighScore = g.highScore
		cfg.AutoReset = g.cfg.AutoReset
		ctrl, err = NewController(cfg, WithLogger(g.logger))
		if err != nil {
			panic(fmt.Sprintf("dodge: default config rejected: %v", err))
		}
	}
	ctrl.OnTerminate(g.onTerminate)

	g.ctrl = ctrl
	g.paused = false
	g.tooSmall = rc.ScreenW > 0 && rc.ScreenH > 0 && !fits(ctrl.Grid(), rc.ScreenW, rc.ScreenH)
	g.finished = nil
	g.recorder = nil
	if g.record {
		g.recorder = NewRecorder(ctrl, cfg)
	}
}

func (g *Game) onTerminate(r RoundResult) {
	g.highScore = max(g.highScore, r.HighScore)
	g.finished = append(g.finished, core.RoundSummary{
		Round:          r.Round,
		Score:          r.Score,
		ElapsedSeconds: r.ElapsedSeconds,
		EnemiesSpawned: r.EnemiesSpawned,
		FinalSpeed:     r.FinalSpeed,
	})
}

// Step applies one frame of input and advances the controller by one frame
// of wall time. Nothing moves while paused or while the board does not fit
// on screen.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionRestart) && g.ctrl.Status() == StatusTerminated {
		g.paused = false
		g.ctrl.Reset()
	}

	if !g.paused && !g.tooSmall {
		input := g.ctrl.Input()
		for _, a := range in.Actions {
			if dir := directionFor(a); dir != DirNone {
				input.Direction(dir)
			}
		}
		g.ctrl.Advance(g.runtime.FrameDuration())
	}

	res := core.StepResult{State: g.State(), Finished: g.finished}
	g.finished = nil
	return res
}

func directionFor(a core.Action) Direction {
	switch a {
	case core.ActionUp:
		return DirUp
	case core.ActionDown:
		return DirDown
	case core.ActionLeft:
		return DirLeft
	case core.ActionRight:
		return DirRight
	default:
		return DirNone
	}
}

// State returns the platform view of the game.
func (g *Game) State() core.GameState {
	s := g.ctrl.Snapshot()
	return core.GameState{
		Score:     s.Score,
		HighScore: s.DisplayHighScore(),
		GameOver:  s.Status == StatusTerminated,
		Paused:    g.paused,
	}
}

// Render draws the board centered on dst with the HUD above and below it.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	s := g.ctrl.Snapshot()

	n := s.Grid.CellCount
	board := boardRect(s.Grid)
	g.tooSmall = !fits(s.Grid, dst.Width(), dst.Height())
	if g.tooSmall {
		renderTooSmall(dst)
		return
	}
	board.X = (dst.Width() - board.W) / 2
	board.Y = (dst.Height()-board.H-2)/2 + 1

	dst.DrawText(board.X, board.Y-1, fmt.Sprintf("Time: %d", s.ElapsedSeconds))
	score := fmt.Sprintf("Score: %d", s.Score)
	dst.DrawText(board.Right()-len(score), board.Y-1, score)
	dst.DrawBox(board, core.ColorGray)

	for _, e := range s.Enemies {
		row, col := cellOf(e.Position.Top, s.Grid.CellSize), cellOf(e.Position.Left, s.Grid.CellSize)
		drawCell(dst, board, n, row, col, EnemyGlyph, core.ColorBrightRed)
	}
	drawCell(dst, board, n, s.Player.Top/s.Grid.CellSize, s.Player.Left/s.Grid.CellSize, PlayerGlyph, core.ColorBrightWhite)

	dst.DrawTextCentered(board.Bottom(), fmt.Sprintf("High Score: %d", s.DisplayHighScore()))

	switch {
	case s.Status == StatusTerminated:
		g.renderOverlay(dst, "GAME OVER", fmt.Sprintf("Score %d - press R", s.Score))
	case g.paused:
		g.renderOverlay(dst, "PAUSED", "press P to resume")
	}
}

// boardRect is the bordered board at the origin.
func boardRect(grid GridConfig) core.Rect {
	n := grid.CellCount
	return core.NewRect(0, 0, n*cellWidth+2, n+2)
}

// fits reports whether the board and its HUD rows fit on a w x h screen.
func fits(grid GridConfig, w, h int) bool {
	board := boardRect(grid)
	return w >= board.W && h >= board.H+2
}

// renderTooSmall uses the longest messages that fit the screen width.
func renderTooSmall(dst *core.Screen) {
	pick := func(msgs ...string) string {
		for _, m := range msgs {
			if len(m) <= dst.Width() {
				return m
			}
		}
		return ""
	}
	y := dst.Height() / 2
	dst.DrawTextCentered(y, pick("Window too small", "Too small", "Small"))
	if y+1 < dst.Height() {
		dst.DrawTextCentered(y+1, pick("Resize to continue", "Resize"))
	}
}

// cellOf maps a pixel coordinate to the board cell containing it.
func cellOf(px float64, cellSize int) int {
	return core.FloorDiv(int(math.Floor(px)), cellSize)
}

func drawCell(dst *core.Screen, board core.Rect, n, row, col int, glyph string, c core.Color) {
	if row < 0 || row >= n || col < 0 || col >= n {
		return
	}
	dst.DrawTextColor(board.X+1+col*cellWidth, board.Y+1+row, glyph, c)
}

func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := core.Max(len(line1), len(line2)) + 4
	box := core.NewRect((dst.Width()-w)/2, dst.Height()/2-2, w, 4)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorYellow)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+2, line2)
}
