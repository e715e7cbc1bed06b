package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/rpsbot/internal/game"
	"github.com/lox/rpsbot/internal/prefs"
)

const (
	placeholder = "❔"
	idlePrompt  = "Make your move!"
	historySize = 50
)

// thinkingFrames cycle on the bot card while a round is in progress
var thinkingFrames = spinner.Spinner{
	Frames: []string{"🤔", "🧠", "💭", "⚡"},
	FPS:    time.Second / 5,
}

// errMsg carries a failed controller call back into the update loop
type errMsg struct{ err error }

// Model is the Bubble Tea model for a single game session
type Model struct {
	ctrl      *game.Controller
	store     prefs.Store
	logger    *log.Logger
	formatter game.EventFormatter

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	history viewport.Model

	theme  prefs.Theme
	styles Styles

	// Display state, driven by controller events
	playing     bool
	playerCard  string
	botCard     string
	result      string
	resultColor lipgloss.Color
	score       game.Score
	rounds      []string
	lastErr     string

	width    int
	height   int
	quitting bool
}

// NewModel creates a model for ctrl. The theme is written to store when
// toggled.
func NewModel(ctrl *game.Controller, store prefs.Store, theme prefs.Theme, logger *log.Logger) *Model {
	styles := NewStyles(theme)
	vp := viewport.New(40, 6)

	return &Model{
		ctrl:        ctrl,
		store:       store,
		logger:      logger.WithPrefix("tui"),
		formatter:   game.EventFormatter{ShowEmoji: true},
		keys:        newKeyMap(ctrl.Table()),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(thinkingFrames)),
		history:     vp,
		theme:       theme,
		styles:      styles,
		playerCard:  placeholder,
		botCard:     placeholder,
		result:      idlePrompt,
		resultColor: styles.DrawColor,
		score:       ctrl.Score(),
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and controller events
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case game.BotThinkingEvent:
		m.playing = true
		m.keys.setPlaying(true)
		m.playerCard = msg.Player.Label()
		m.botCard = m.spinner.View()
		m.result = "Bot is choosing..."
		m.resultColor = m.styles.DrawColor
		m.lastErr = ""
		return m, m.spinner.Tick

	case game.RoundResolvedEvent:
		m.playing = false
		m.keys.setPlaying(false)
		m.playerCard = msg.Outcome.Player.Label()
		m.botCard = msg.Outcome.Bot.Label()
		m.result = m.formatter.FormatResult(msg.Outcome.Winner)
		m.resultColor = m.styles.WinnerColor(msg.Outcome.Winner)
		m.score = msg.Score
		m.addHistory(m.formatter.FormatRoundResolved(msg))
		return m, nil

	case game.ScoreResetEvent:
		m.playerCard = placeholder
		m.botCard = placeholder
		m.result = idlePrompt
		m.resultColor = m.styles.DrawColor
		m.score = msg.Score
		m.addHistory(m.formatter.FormatScoreReset(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.playing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.botCard = m.spinner.View()
		return m, cmd

	case errMsg:
		m.lastErr = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Theme):
		theme, err := prefs.ToggleTheme(m.store, m.theme)
		if err != nil {
			m.logger.Error("Failed to save theme", "error", err)
			m.lastErr = err.Error()
		}
		m.setTheme(theme)
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		return m, m.resetCmd()
	}

	if m.playing {
		return m, nil
	}
	if c, ok := m.ctrl.Table().ByKey(msg.String()); ok {
		return m, m.playCmd(c.Name)
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// playCmd runs the controller call off the update loop. Events published
// by the controller come back through Program.Send, which must not be
// called from inside Update.
func (m *Model) playCmd(name string) tea.Cmd {
	ctrl := m.ctrl
	logger := m.logger
	return func() tea.Msg {
		logger.Debug("Requesting round", "choice", name)
		if err := ctrl.RequestRound(name); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m *Model) resetCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Reset()
		return nil
	}
}

func (m *Model) setTheme(theme prefs.Theme) {
	m.theme = theme
	m.styles = NewStyles(theme)
}

func (m *Model) addHistory(line string) {
	m.rounds = append(m.rounds, line)
	if len(m.rounds) > historySize {
		m.rounds = m.rounds[len(m.rounds)-historySize:]
	}
	m.history.SetContent(strings.Join(m.rounds, "\n"))
	m.history.GotoBottom()
}

// View renders the game screen
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Header.Render(" 🪨 📄 ✂️  Rock Paper Scissors Stone "))
	b.WriteString("\n\n")

	player := m.styles.Card.Render(
		m.styles.Label.Render("You") + "\n\n" + m.styles.Choice.Render(m.playerCard))
	bot := m.styles.Card.Render(
		m.styles.Label.Render("Bot") + "\n\n" + m.styles.Choice.Render(m.botCard))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, player, "  ", bot))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Result.Foreground(m.resultColor).Render(m.result))
	b.WriteString("\n")
	b.WriteString(m.styles.Score.Render(fmt.Sprintf("You %d  •  Bot %d  •  Draws %d",
		m.score.Player, m.score.Bot, m.score.Draws)))
	b.WriteString("\n\n")

	if len(m.rounds) > 0 {
		b.WriteString(m.styles.History.Render(m.history.View()))
		b.WriteString("\n\n")
	}

	if m.lastErr != "" {
		b.WriteString(m.styles.Error.Render(m.lastErr))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

// Theme returns the active theme
func (m *Model) Theme() prefs.Theme {
	return m.theme
}

// Playing reports whether the model is showing a round in progress
func (m *Model) Playing() bool {
	return m.playing
}
