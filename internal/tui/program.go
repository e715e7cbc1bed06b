package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/rpsbot/internal/game"
	"github.com/lox/rpsbot/internal/prefs"
)

// NewBridge returns a subscriber that forwards controller events to send,
// typically tea.Program.Send.
func NewBridge(send func(tea.Msg)) game.EventSubscriber {
	return game.EventSubscriberFunc(func(event game.GameEvent) {
		send(event)
	})
}

// Run plays ctrl interactively until the user quits or ctx is cancelled.
// The controller is closed on return.
func Run(ctx context.Context, ctrl *game.Controller, store prefs.Store, theme prefs.Theme, logger *log.Logger, opts ...tea.ProgramOption) error {
	defer func() { _ = ctrl.Close() }()

	model := NewModel(ctrl, store, theme, logger)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)

	ctrl.EventBus().Subscribe(NewBridge(p.Send))

	logger.Info("Starting interactive game", "choices", ctrl.Table().Names(), "delay", ctrl.Delay())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.Info("Game finished", "score", ctrl.Score())
	return nil
}
