package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rpsbot/internal/config"
	"github.com/lox/rpsbot/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func defaultTable(t *testing.T) *game.Table {
	t.Helper()
	table, err := game.NewTable(game.DefaultChoices())
	require.NoError(t, err)
	return table
}

func TestSimulationAccountsForEveryRound(t *testing.T) {
	table := defaultTable(t)
	sim := simulation{table: table, rounds: 250, sessions: 3, seed: 42, logger: quietLogger()}

	result, err := sim.run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Sessions, 3)
	for _, score := range result.Sessions {
		assert.Equal(t, 250, score.Rounds())
	}
	assert.Equal(t, 750, result.Total.Rounds())

	var byChoice int
	for _, cs := range result.ByChoice {
		byChoice += cs.Rounds()
	}
	assert.Equal(t, 750, byChoice)
}

func TestSimulationIsReproducible(t *testing.T) {
	table := defaultTable(t)
	sim := simulation{table: table, rounds: 100, sessions: 2, seed: 7, logger: quietLogger()}

	first, err := sim.run(context.Background())
	require.NoError(t, err)
	second, err := sim.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Sessions, second.Sessions)
}

func TestSimulationVerboseOutput(t *testing.T) {
	var out bytes.Buffer
	sim := simulation{table: defaultTable(t), rounds: 3, sessions: 1, seed: 1, logger: quietLogger(), out: &out}

	_, err := sim.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("[0] ")))
	assert.Contains(t, out.String(), " vs ")
}

func TestSimulationStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := simulation{table: defaultTable(t), rounds: 10, sessions: 2, seed: 1, logger: quietLogger()}
	_, err := sim.run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescribeTable(t *testing.T) {
	var out bytes.Buffer
	describeTable(&out, defaultTable(t), "strict")

	assert.Contains(t, out.String(), "4 choices (strict)")
	assert.Contains(t, out.String(), "beats scissors, stone")
	assert.NotContains(t, out.String(), "undecided")

	lenient, err := game.NewTableWithValidation([]game.Choice{
		{Name: "rock", Beats: []string{"scissors"}},
		{Name: "paper", Beats: []string{"rock"}},
		{Name: "scissors"},
	}, game.Lenient)
	require.NoError(t, err)

	out.Reset()
	describeTable(&out, lenient, "lenient")
	assert.Contains(t, out.String(), "1 undecided pairs")
	assert.Contains(t, out.String(), "paper vs scissors")
	assert.Contains(t, out.String(), "[-]")
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpsbot.hcl")

	require.NoError(t, initConfig(path))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	err = initConfig(path)
	assert.ErrorContains(t, err, "already exists")
}

func TestGlobalsLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpsbot.hcl")

	g := &Globals{Config: path, LogLevel: "debug"}
	cfg, err := g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	require.NoError(t, os.WriteFile(path, []byte(`game {
  delay = "-1s"
}
`), 0o644))
	_, err = g.loadConfig()
	assert.ErrorContains(t, err, "negative")
}
