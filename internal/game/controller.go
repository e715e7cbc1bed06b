package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultDelay is how long the bot "thinks" before a round resolves.
const DefaultDelay = 2 * time.Second

// ErrClosed is returned by RequestRound after Close.
var ErrClosed = errors.New("controller closed")

// RoundState is whether a round is currently being resolved.
type RoundState int

const (
	Idle RoundState = iota
	InProgress
)

// String returns the string representation of a round state
func (s RoundState) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}

// Picker selects the bot's move. Next must return a value in [0, n).
type Picker interface {
	Next(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) Next(n int) int { return f(n) }

type globalPicker struct{}

func (globalPicker) Next(n int) int { return rand.IntN(n) }

// ControllerOption configures a Controller during creation.
type ControllerOption func(*Controller)

// WithClock sets the clock resolutions are scheduled on.
func WithClock(clock quartz.Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

// WithPicker sets the bot's random source.
func WithPicker(p Picker) ControllerOption {
	return func(c *Controller) { c.picker = p }
}

// WithDelay sets the thinking delay. Zero or negative resolves rounds
// inside RequestRound.
func WithDelay(d time.Duration) ControllerOption {
	return func(c *Controller) { c.delay = d }
}

// WithEventBus publishes events on an existing bus.
func WithEventBus(bus EventBus) ControllerOption {
	return func(c *Controller) { c.bus = bus }
}

// Controller runs rounds for one game session. It owns the score and the
// round state; callers only read them.
type Controller struct {
	table  *Table
	logger *log.Logger
	clock  quartz.Clock
	picker Picker
	delay  time.Duration
	bus    EventBus

	mu     sync.Mutex
	state  RoundState
	score  Score
	round  uint64
	player Choice
	bot    Choice
	timer  *quartz.Timer
	closed bool
}

// NewController creates a controller for table. By default it uses the real
// clock, the global random source and DefaultDelay.
func NewController(table *Table, logger *log.Logger, opts ...ControllerOption) *Controller {
	if table == nil {
		panic("table is required for controller creation")
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		table:  table,
		logger: logger.WithPrefix("controller"),
		clock:  quartz.NewReal(),
		picker: globalPicker{},
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = NewEventBus()
	}
	return c
}

// RequestRound starts a round with the named player choice. Unknown names
// return *InvalidChoiceError. A request while a round is in progress is
// ignored and returns nil.
func (c *Controller) RequestRound(name string) error {
	player, ok := c.table.Get(name)
	if !ok {
		return &InvalidChoiceError{Name: name}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == InProgress {
		c.mu.Unlock()
		c.logger.Debug("Ignoring round request while in progress", "choice", name)
		return nil
	}

	bot := c.table.At(c.pick())
	c.state = InProgress
	c.round++
	round := c.round
	c.player, c.bot = player, bot
	now := c.clock.Now()
	c.mu.Unlock()

	c.logger.Debug("Round started", "round", round, "player", player.Name)
	c.bus.Publish(NewBotThinkingEvent(player, now))

	if c.delay <= 0 {
		c.resolve(round)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.round != round || c.state != InProgress {
		return nil
	}
	c.timer = c.clock.AfterFunc(c.delay, func() { c.resolve(round) }, "controller", "resolve")
	return nil
}

// pick draws an index for the bot. Caller holds mu.
func (c *Controller) pick() int {
	n := c.table.Len()
	i := c.picker.Next(n) % n
	if i < 0 {
		i += n
	}
	return i
}

func (c *Controller) resolve(round uint64) {
	c.mu.Lock()
	if c.closed || c.state != InProgress || c.round != round {
		c.mu.Unlock()
		return
	}
	outcome := Resolve(c.player, c.bot)
	c.score.record(outcome.Winner)
	c.state = Idle
	c.timer = nil
	score := c.score
	now := c.clock.Now()
	c.mu.Unlock()

	c.logger.Debug("Round resolved",
		"round", round,
		"player", outcome.Player.Name,
		"bot", outcome.Bot.Name,
		"winner", outcome.Winner,
		"score", score)
	if c.isClosed() {
		return
	}
	c.bus.Publish(NewRoundResolvedEvent(outcome, score, now))
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Reset zeroes the score. It does nothing while a round is in progress or
// when neither side has scored, and reports whether a reset happened.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	if c.closed || c.state == InProgress || c.score.IsZero() {
		c.mu.Unlock()
		return false
	}
	c.score = Score{}
	score := c.score
	now := c.clock.Now()
	c.mu.Unlock()

	c.logger.Debug("Score reset")
	c.bus.Publish(NewScoreResetEvent(score, now))
	return true
}

// Close cancels any pending resolution and stops further events. Events are
// delivered without the lock held, so a resolution running on another
// goroutine that has already passed its last closed check can still deliver
// one RoundResolvedEvent concurrently with Close.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
		c.logger.Debug("Cancelled pending resolution", "round", c.round)
	}
	return nil
}

// State returns the current round state.
func (c *Controller) State() RoundState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Score returns a snapshot of the score.
func (c *Controller) Score() Score {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// Table returns the choice table.
func (c *Controller) Table() *Table {
	return c.table
}

// Delay returns the configured thinking delay.
func (c *Controller) Delay() time.Duration {
	return c.delay
}

// EventBus returns the bus events are published on.
func (c *Controller) EventBus() EventBus {
	return c.bus
}
