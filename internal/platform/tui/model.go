package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/core"
	"github.com/vovakirdan/starblaster/internal/game"
	"github.com/vovakirdan/starblaster/internal/platform/canvas"
)

// helpRows is the space reserved under the playfield for the help bar.
const helpRows = 1

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))
	accentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Options configures a Model.
type Options struct {
	Config config.StarBlasterConfig
	FPS    int
	Seed   int64 // 0 picks a time-based seed

	Width, Height int

	Audio       game.Audio
	Leaderboard *game.Leaderboard
	History     game.HistoryRecorder
	Events      []game.EventSink
	Logger      *log.Logger

	// ScreenshotDir receives Ctrl+S captures. Empty disables screenshots.
	ScreenshotDir string

	// PlayerName prefills the high score name field.
	PlayerName string
}

// Model is the Bubble Tea host of one game. Ticks drive the frame driver;
// key presses become press/release pairs through a HoldTracker.
type Model struct {
	game     *game.Game
	screen   *core.Screen
	renderer *screenRenderer
	display  *titleDisplay
	holds    *HoldTracker
	keys     KeyMap
	help     help.Model
	name     textinput.Model
	logger   *log.Logger
	now      func() time.Time

	fps      int
	gen      int
	width    int
	height   int
	shotDir  string
	status   string
	quitting bool
}

// NewModel creates a model on the start screen.
func NewModel(opts Options) Model {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := core.DefaultConfig()
		opts.Width, opts.Height = def.ScreenW, def.ScreenH
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	screen := core.NewScreen(opts.Width, core.Max(opts.Height-helpRows, 1))
	renderer := &screenRenderer{screen: screen}
	display := &titleDisplay{}

	g := game.New(game.Options{
		Config:      opts.Config,
		Seed:        opts.Seed,
		Renderer:    renderer,
		Display:     display,
		Audio:       opts.Audio,
		Events:      opts.Events,
		Leaderboard: opts.Leaderboard,
		History:     opts.History,
		Logger:      logger,
	})

	name := textinput.New()
	name.Placeholder = game.AnonymousName
	name.CharLimit = 20
	name.Width = 20
	name.SetValue(opts.PlayerName)

	h := help.New()
	h.Width = opts.Width

	return Model{
		game:     g,
		screen:   screen,
		renderer: renderer,
		display:  display,
		holds:    NewHoldTracker(opts.Config.Input),
		keys:     DefaultKeyMap(),
		help:     h,
		name:     name,
		logger:   logger,
		now:      time.Now,
		fps:      opts.FPS,
		width:    opts.Width,
		height:   opts.Height,
		shotDir:  opts.ScreenshotDir,
	}
}

// Game returns the hosted game.
func (m Model) Game() *game.Game { return m.game }

// Init shows the start screen. Nothing ticks until a game starts.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("StarBlaster")
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-helpRows, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	if m.name.Focused() {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}
	if m.name.Focused() {
		return m.handleNameKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Sound):
		on := m.game.ToggleSound()
		m.logger.Debug("sound toggled", "on", on)
		return m, nil
	}

	switch m.game.Phase() {
	case game.PhaseStart:
		if key.Matches(msg, m.keys.Start) {
			return m.begin(m.game.Start)
		}

	case game.PhasePlaying:
		return m.handlePlayingKey(msg)

	case game.PhaseGameOver:
		switch {
		case key.Matches(msg, m.keys.Restart):
			return m.begin(m.game.Restart)
		case key.Matches(msg, m.keys.Menu):
			if err := m.game.ReturnToMenu(); err != nil {
				m.logger.Warn("cannot return to menu", "err", err)
			}
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.Start) && m.game.CanSubmit():
			cmd := m.name.Focus()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Pause):
		if err := m.game.TogglePause(); err != nil {
			return m, nil
		}
		if m.game.Paused() {
			m.releaseAll()
			return m, nil
		}
		return m.loop()

	case key.Matches(msg, m.keys.Restart):
		if m.game.Err() != nil {
			return m.begin(m.game.Restart)
		}
		return m, nil
	}

	a := m.keys.heldAction(msg)
	if a == core.ActionNone || !m.game.Running() {
		return m, nil
	}
	if m.holds.Press(a, m.now()) {
		m.game.Press(a)
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		m.name.Blur()
		rank, err := m.game.SubmitScore(m.name.Value())
		if err != nil {
			m.status = "Score not submitted: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Score submitted! Rank #%d", rank)
		return m, nil

	case tea.KeyEsc:
		m.name.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// begin starts or restarts a game and opens a new frame loop.
func (m Model) begin(start func() error) (tea.Model, tea.Cmd) {
	if err := start(); err != nil {
		m.logger.Warn("cannot start game", "err", err)
		return m, nil
	}
	m.releaseAll()
	m.name.Blur()
	m.status = ""
	return m.loop()
}

// loop supersedes any running frame loop with a new one whose first frame
// is delivered immediately.
func (m Model) loop() (tea.Model, tea.Cmd) {
	m.gen++
	gen := m.gen
	return m, func() tea.Msg {
		return TickMsg{Time: time.Now(), Gen: gen}
	}
}

func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}

	for _, a := range m.holds.Expire(msg.Time) {
		m.game.Release(a)
	}

	again, err := m.game.Frame(msg.Time)
	if err != nil {
		m.releaseAll()
	}

	var cmds []tea.Cmd
	if m.display.dirty {
		m.display.dirty = false
		cmds = append(cmds, tea.SetWindowTitle(fmt.Sprintf("StarBlaster · Score %d", m.display.score)))
	}
	if m.game.Phase() == game.PhaseGameOver && !again {
		m.releaseAll()
		if m.game.CanSubmit() {
			cmds = append(cmds, m.name.Focus())
		}
	}
	if again {
		cmds = append(cmds, frameCmd(m.fps, m.gen))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) releaseAll() {
	for _, a := range m.holds.ReleaseAll() {
		m.game.Release(a)
	}
}

// saveScreenshot writes the current frame as text and as a PNG.
func (m *Model) saveScreenshot() {
	if m.shotDir == "" {
		return
	}
	snap := m.game.Snapshot()
	if !m.game.Running() {
		game.Draw(m.screen, snap)
	}

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot dir", "err", err)
		return
	}
	base := filepath.Join(m.shotDir, "starblaster_"+m.now().Format("20060102_150405"))

	if err := os.WriteFile(base+".txt", []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	if err := canvas.SavePNG(base+".png", snap, 1); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.status = "Screenshot saved: " + base
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.game.Phase() {
	case game.PhaseStart:
		return m.startView()
	case game.PhaseGameOver:
		return m.gameOverView()
	}

	if !m.game.Running() {
		game.Draw(m.screen, m.game.Snapshot())
	}
	return RenderScreen(m.screen) + "\n" + dimStyle.Render(m.help.View(m.keys))
}

func (m Model) startView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("S T A R B L A S T E R"))
	b.WriteString("\n\n")
	b.WriteString(accentStyle.Render("HIGH SCORES"))
	b.WriteString("\n")
	b.WriteString(leaderboardView(m.game.Leaderboard().Entries()))
	b.WriteString("\n\n")
	b.WriteString(m.soundLine())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(menuKeys{m.keys.Start, m.keys.Sound, m.keys.Quit})))
	return m.place(b.String())
}

func (m Model) gameOverView() string {
	snap := m.game.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME OVER"))
	b.WriteString("\n\n")
	b.WriteString(accentStyle.Render(fmt.Sprintf("Final score: %d", snap.Score)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", snap.Elapsed.Round(time.Second))))
	b.WriteString("\n\n")

	keys := menuKeys{m.keys.Restart, m.keys.Menu, m.keys.Quit}
	switch {
	case m.name.Focused():
		b.WriteString("New high score! Enter your name:\n")
		b.WriteString(m.name.View())
		keys = menuKeys{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "skip")),
		}
	case m.status != "":
		b.WriteString(m.status)
	case m.game.CanSubmit():
		b.WriteString("New high score! Press enter to record it.")
		keys = append(menuKeys{m.keys.Start}, keys...)
	}
	b.WriteString("\n\n")
	b.WriteString(leaderboardView(m.game.Leaderboard().Entries()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.help.View(keys)))
	return m.place(b.String())
}

func (m Model) soundLine() string {
	switch {
	case !m.game.SoundAvailable():
		return dimStyle.Render("Sound: unavailable")
	case m.game.SoundOn():
		return "Sound: on"
	default:
		return "Sound: off"
	}
}

func (m Model) place(content string) string {
	content = lipgloss.JoinVertical(lipgloss.Center, strings.Split(content, "\n")...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// leaderboardView renders entries as a table, or a placeholder when empty.
func leaderboardView(entries []game.Entry) string {
	if len(entries) == 0 {
		return boxStyle.Render(dimStyle.Italic(true).Render("No high scores yet!"))
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{fmt.Sprintf("#%d", i+1), e.Name, strconv.Itoa(e.Score)}
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Name", Width: 20},
			{Title: "Score", Width: 8},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2), // Header and its border
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)

	return boxStyle.Render(t.View())
}

// Run starts a local Bubble Tea program on the terminal.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
