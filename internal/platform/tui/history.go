package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// History layout constants
const (
	maxHistoryRows = 100
	historyChrome  = 9 // title, stats, tabs, help and borders
)

// HistoryView selects which rounds the history table lists.
type HistoryView int

const (
	HistoryRecent HistoryView = iota
	HistoryTop
)

// String returns the tab label.
func (v HistoryView) String() string {
	if v == HistoryTop {
		return "Best"
	}
	return "Recent"
}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchView, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "recent/best"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the round journal screen.
type HistoryModel struct {
	store     *storage.Store
	gameID    string
	view      HistoryView
	rounds    []storage.RoundRecord
	stats     storage.Stats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a history screen for one game.
func NewHistoryModel(store *storage.Store, gameID string, width, height int) HistoryModel {
	h := help.New()
	h.Width = width

	m := HistoryModel{
		store:  store,
		gameID: gameID,
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Time", Width: 6},
		{Title: "Enemies", Width: 8},
		{Title: "Speed", Width: 6},
		{Title: "Player", Width: 12},
		{Title: "Date", Width: 14},
	}

	height := m.height - historyChrome
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load refreshes rounds and stats from the store.
func (m *HistoryModel) load() {
	m.rounds, m.stats, m.loadErr = nil, storage.Stats{}, nil
	if m.store != nil {
		var err error
		if m.view == HistoryTop {
			m.rounds, err = m.store.TopRounds(m.gameID, maxHistoryRows)
		} else {
			m.rounds, err = m.store.RecentRounds(m.gameID, maxHistoryRows)
		}
		if err == nil {
			m.stats, err = m.store.Stats(m.gameID)
		}
		m.loadErr = err
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded rounds.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.rounds))
	for i, r := range m.rounds {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%ds", r.ElapsedSeconds),
			fmt.Sprintf("%d", r.EnemiesSpawned),
			fmt.Sprintf("%.2f", r.FinalSpeed),
			r.Session,
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.SwitchView):
			if m.view == HistoryRecent {
				m.view = HistoryTop
			} else {
				m.view = HistoryRecent
			}
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTab := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tab := dimStyle.Padding(0, 1)

	tabs := make([]string, 0, 2)
	for _, v := range []HistoryView{HistoryRecent, HistoryTop} {
		if v == m.view {
			tabs = append(tabs, activeTab.Render(v.String()))
		} else {
			tabs = append(tabs, tab.Render(v.String()))
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("ROUND HISTORY"),
		dimStyle.Render(m.statsLine()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		boxStyle.Render(m.renderTableContent()),
		dimStyle.Render(m.help.View(m.keys)),
	)
}

func (m HistoryModel) statsLine() string {
	if m.stats.Rounds == 0 {
		return "No rounds yet"
	}
	return fmt.Sprintf("%d rounds  |  best %d  |  average %.1f  |  %ds survived",
		m.stats.Rounds, m.stats.BestScore, m.stats.AverageScore, m.stats.TotalSeconds)
}

// renderTableContent renders the table or an explanatory message.
func (m HistoryModel) renderTableContent() string {
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)

	switch {
	case m.store == nil:
		return empty.Render("Round journal unavailable.")
	case m.loadErr != nil:
		return empty.Render("Could not read the journal:\n" + m.loadErr.Error())
	case len(m.rounds) == 0:
		return empty.Render("No rounds recorded yet.\nPlay a round to start the journal!")
	}
	return m.table.View()
}

// Rounds returns the rows currently listed.
func (m HistoryModel) Rounds() []storage.RoundRecord {
	return m.rounds
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen on its own.
func RunHistory(store *storage.Store, gameID string, width, height int) error {
	model := historyProgram{NewHistoryModel(store, gameID, width, height)}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// historyProgram quits on back when the history screen runs standalone.
type historyProgram struct {
	HistoryModel
}

func (p historyProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.HistoryModel.Update(msg)
	p.HistoryModel = next.(HistoryModel)
	if p.IsGoingBack() {
		return p, tea.Quit
	}
	return p, cmd
}
