package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// SessionConfig describes one player session.
type SessionConfig struct {
	Store    *storage.Store
	Runtime  core.RuntimeConfig
	Username string
	GameID   string // journal key for history; defaults to "dodge"
	NewGame  GameFactory
	Logger   *log.Logger
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenHistory
)

// SessionModel manages the session flow: menu -> game or history -> menu.
// It is the top-level model for SSH sessions and for the bare dodge command.
type SessionModel struct {
	cfg      SessionConfig
	screen   sessionScreen
	menu     MenuModel
	game     *Model
	history  *HistoryModel
	errMsg   string
	loops    int
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.GameID == "" {
		cfg.GameID = "dodge"
	}
	if cfg.Username == "" {
		cfg.Username = SessionLocal
	}

	m := SessionModel{cfg: cfg}
	m.menu = NewMenuModel(cfg.Runtime, m.bestScore())
	return m
}

// bestScore reads the journal for the menu banner. It never seeds a game.
func (m SessionModel) bestScore() int {
	if m.cfg.Store == nil {
		return 0
	}
	best, err := m.cfg.Store.HighScore(m.cfg.GameID)
	if err != nil {
		m.cfg.Logger.Warn("could not read journal", "error", err)
		return 0
	}
	return best
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Runtime.ScreenW = wsm.Width
		m.cfg.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menuModel, ok := next.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.menu.selected = nil

	if selected.History {
		h := NewHistoryModel(m.cfg.Store, m.cfg.GameID, m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH)
		m.history = &h
		m.screen = screenHistory
		return m, h.Init()
	}

	game, err := m.cfg.NewGame(selected.Preset)
	if err != nil {
		m.cfg.Logger.Error("could not create game", "preset", selected.Preset, "error", err)
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.cfg.Logger.Info("game started", "preset", selected.Preset)

	m.loops++
	gm := NewModel(game, m.cfg.Store, m.cfg.Runtime, Options{
		Session:   m.cfg.Username,
		Logger:    m.cfg.Logger,
		AllowBack: true,
		Loop:      m.loops,
	})
	m.game = &gm
	m.screen = screenGame
	return m, gm.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gameModel, ok := next.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.cfg.Logger.Info("game left", "rounds", m.game.Journaled())
		m.game = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.cfg.Runtime, m.bestScore())
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateHistory handles updates when the history screen is open.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	if h, ok := next.(HistoryModel); ok {
		m.history = &h
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.history = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.cfg.Runtime, m.bestScore())
		return m, nil
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenHistory:
		return m.history.View()
	}

	v := m.menu.View()
	if m.errMsg != "" {
		v += "\n" + centerText("error: "+m.errMsg, m.cfg.Runtime.ScreenW) + "\n"
	}
	return v
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(cfg SessionConfig) error {
	p := tea.NewProgram(
		NewSessionModel(cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
