package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rpsbot/internal/game"
	"github.com/lox/rpsbot/internal/randutil"
)

// SimulateCmd plays random rounds without a terminal
type SimulateCmd struct {
	Rounds   int   `default:"1000" help:"Rounds to play per session"`
	Sessions int   `default:"4" help:"Sessions to run in parallel"`
	Seed     int64 `default:"0" help:"Base RNG seed (0 for random)"`
	Verbose  bool  `help:"Print every resolved round"`
}

// simulation describes one headless run
type simulation struct {
	table    *game.Table
	rounds   int
	sessions int
	seed     int64
	logger   *log.Logger
	out      io.Writer // per-round lines, nil for none
}

// tally aggregates the final scores of every session
type tally struct {
	Sessions []game.Score
	Total    game.Score
	ByChoice map[string]game.Score
}

func (c *SimulateCmd) Run(g *Globals) error {
	if c.Rounds <= 0 || c.Sessions <= 0 {
		return fmt.Errorf("rounds and sessions must be positive")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg).WithPrefix("simulate")

	table, err := cfg.Table()
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := simulation{
		table:    table,
		rounds:   c.Rounds,
		sessions: c.Sessions,
		seed:     seed,
		logger:   logger,
	}
	if c.Verbose {
		sim.out = os.Stdout
	}

	fmt.Printf("Starting simulation: %d sessions x %d rounds (seed: %d)\n", c.Sessions, c.Rounds, seed)
	start := time.Now()

	ctx, stop := signalContext()
	defer stop()

	result, err := sim.run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	printTally(os.Stdout, table, result)
	fmt.Printf("\nPerformance: %.0f rounds/sec\n", float64(result.Total.Rounds())/elapsed.Seconds())
	return nil
}

// run plays every session concurrently. Session i uses seed+i for the bot
// and a derived seed for the simulated player, so a run is reproducible.
func (s simulation) run(ctx context.Context) (*tally, error) {
	scores := make([]game.Score, s.sessions)
	byChoice := make([]map[string]game.Score, s.sessions)

	eg, ctx := errgroup.WithContext(ctx)
	for i := range s.sessions {
		eg.Go(func() error {
			score, choices, err := s.session(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			scores[i] = score
			byChoice[i] = choices
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	t := &tally{Sessions: scores, ByChoice: make(map[string]game.Score)}
	for i, score := range scores {
		t.Total.Player += score.Player
		t.Total.Bot += score.Bot
		t.Total.Draws += score.Draws
		for name, cs := range byChoice[i] {
			agg := t.ByChoice[name]
			agg.Player += cs.Player
			agg.Bot += cs.Bot
			agg.Draws += cs.Draws
			t.ByChoice[name] = agg
		}
	}
	return t, nil
}

func (s simulation) session(ctx context.Context, i int) (game.Score, map[string]game.Score, error) {
	ctrl := game.NewController(s.table, s.logger.With("session", i),
		game.WithDelay(0),
		game.WithPicker(randutil.NewPicker(s.seed+int64(i))))
	defer func() { _ = ctrl.Close() }()

	byChoice := make(map[string]game.Score)
	formatter := game.EventFormatter{}
	ctrl.EventBus().Subscribe(game.EventSubscriberFunc(func(event game.GameEvent) {
		resolved, ok := event.(game.RoundResolvedEvent)
		if !ok {
			return
		}
		cs := byChoice[resolved.Outcome.Player.Name]
		switch resolved.Outcome.Winner {
		case game.PlayerWins:
			cs.Player++
		case game.BotWins:
			cs.Bot++
		default:
			cs.Draws++
		}
		byChoice[resolved.Outcome.Player.Name] = cs

		if s.out != nil {
			fmt.Fprintf(s.out, "[%d] %s\n", i, formatter.FormatRoundResolved(resolved))
		}
	}))

	player := randutil.NewPicker(^(s.seed + int64(i)))
	for range s.rounds {
		if err := ctx.Err(); err != nil {
			return game.Score{}, nil, err
		}
		choice := s.table.At(player.Next(s.table.Len()))
		if err := ctrl.RequestRound(choice.Name); err != nil {
			return game.Score{}, nil, err
		}
	}
	return ctrl.Score(), byChoice, nil
}

func printTally(w io.Writer, table *game.Table, t *tally) {
	rounds := t.Total.Rounds()
	pct := func(n int) float64 {
		if rounds == 0 {
			return 0
		}
		return 100 * float64(n) / float64(rounds)
	}

	fmt.Fprintf(w, "\n=== %d ROUNDS COMPLETED ===\n", rounds)
	fmt.Fprintf(w, "Player: %6d (%5.1f%%)\n", t.Total.Player, pct(t.Total.Player))
	fmt.Fprintf(w, "Bot:    %6d (%5.1f%%)\n", t.Total.Bot, pct(t.Total.Bot))
	fmt.Fprintf(w, "Draws:  %6d (%5.1f%%)\n", t.Total.Draws, pct(t.Total.Draws))

	fmt.Fprintf(w, "\n=== BY PLAYER CHOICE ===\n")
	for _, name := range table.Names() {
		cs := t.ByChoice[name]
		fmt.Fprintf(w, "  %-10s won %5d  lost %5d  drew %5d\n", name, cs.Player, cs.Bot, cs.Draws)
	}
}
