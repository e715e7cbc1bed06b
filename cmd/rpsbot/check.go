package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/rpsbot/internal/config"
	"github.com/lox/rpsbot/internal/game"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D4FF"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF88"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
)

// CheckCmd validates the config file
type CheckCmd struct {
	Init bool `help:"Write the default config to the config path first (refuses to overwrite)"`
}

func (c *CheckCmd) Run(g *Globals) error {
	if c.Init {
		if err := initConfig(g.Config); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", g.Config)
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	describeTable(os.Stdout, table, cfg.Game.Validation)
	fmt.Println(okStyle.Render("✓ " + g.Config + " is valid"))
	return nil
}

func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	return config.DefaultConfig().Write(path)
}

// describeTable prints each choice with its key and the choices it beats,
// then any undecided pairs a lenient table allows.
func describeTable(w io.Writer, table *game.Table, validation string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d choices (%s)", table.Len(), validation)))
	for _, c := range table.Choices() {
		key := c.Key
		if key == "" {
			key = "-"
		}
		beats := "nothing"
		if len(c.Beats) > 0 {
			beats = strings.Join(c.Beats, ", ")
		}
		fmt.Fprintf(w, "  [%s] %-14s beats %s\n", key, c.Label(), beats)
	}

	if gaps := table.Gaps(); len(gaps) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d undecided pairs (bot wins):", len(gaps))))
		for _, gap := range gaps {
			fmt.Fprintf(w, "  %s vs %s\n", gap[0], gap[1])
		}
	}
}
