package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/rpsbot/internal/game"
	"github.com/lox/rpsbot/internal/prefs"
)

// Styles holds the rendered styles for one theme
type Styles struct {
	Header  lipgloss.Style
	Card    lipgloss.Style
	Label   lipgloss.Style
	Choice  lipgloss.Style
	Result  lipgloss.Style
	Score   lipgloss.Style
	History lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style

	PlayerColor lipgloss.Color
	BotColor    lipgloss.Color
	DrawColor   lipgloss.Color
}

type palette struct {
	foreground lipgloss.Color
	muted      lipgloss.Color
	border     lipgloss.Color
	accent     lipgloss.Color
	player     lipgloss.Color
	bot        lipgloss.Color
	draw       lipgloss.Color
}

var palettes = map[prefs.Theme]palette{
	prefs.Dark: {
		foreground: lipgloss.Color("#FAFAFA"),
		muted:      lipgloss.Color("#626262"),
		border:     lipgloss.Color("#7D56F4"),
		accent:     lipgloss.Color("#7D56F4"),
		player:     lipgloss.Color("#00FF88"),
		bot:        lipgloss.Color("#FF3860"),
		draw:       lipgloss.Color("#00D4FF"),
	},
	prefs.Light: {
		foreground: lipgloss.Color("#1A1A1A"),
		muted:      lipgloss.Color("#8A8A8A"),
		border:     lipgloss.Color("#5A3FD0"),
		accent:     lipgloss.Color("#5A3FD0"),
		player:     lipgloss.Color("#008F4C"),
		bot:        lipgloss.Color("#C2183B"),
		draw:       lipgloss.Color("#0077A8"),
	},
}

// NewStyles builds the styles for theme. Unknown themes fall back to dark.
func NewStyles(theme prefs.Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[prefs.Dark]
	}

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(p.accent).
			Padding(0, 1).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 2).
			Width(18).
			Align(lipgloss.Center),
		Label: lipgloss.NewStyle().
			Foreground(p.muted),
		Choice: lipgloss.NewStyle().
			Foreground(p.foreground).
			Bold(true),
		Result: lipgloss.NewStyle().
			Foreground(p.foreground).
			Bold(true),
		Score: lipgloss.NewStyle().
			Foreground(p.foreground),
		History: lipgloss.NewStyle().
			Foreground(p.muted),
		Error: lipgloss.NewStyle().
			Foreground(p.bot).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(p.muted),

		PlayerColor: p.player,
		BotColor:    p.bot,
		DrawColor:   p.draw,
	}
}

// WinnerColor returns the highlight colour for a round winner
func (s Styles) WinnerColor(w game.Winner) lipgloss.Color {
	switch w {
	case game.PlayerWins:
		return s.PlayerColor
	case game.BotWins:
		return s.BotColor
	default:
		return s.DrawColor
	}
}
