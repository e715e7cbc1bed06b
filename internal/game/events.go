package game

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round lifecycle events
const (
	EventTypeBotThinking   EventType = "bot_thinking"
	EventTypeRoundResolved EventType = "round_resolved"
	EventTypeScoreReset    EventType = "score_reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything the controller reports to the presentation layer
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// BotThinkingEvent is published as soon as a round enters InProgress
type BotThinkingEvent struct {
	Player    Choice
	timestamp time.Time
}

func (e BotThinkingEvent) EventType() EventType { return EventTypeBotThinking }
func (e BotThinkingEvent) Timestamp() time.Time { return e.timestamp }

// NewBotThinkingEvent creates a new bot thinking event
func NewBotThinkingEvent(player Choice, at time.Time) BotThinkingEvent {
	return BotThinkingEvent{Player: player, timestamp: at}
}

// RoundResolvedEvent is published once per completed round
type RoundResolvedEvent struct {
	Outcome   Outcome
	Score     Score
	timestamp time.Time
}

func (e RoundResolvedEvent) EventType() EventType { return EventTypeRoundResolved }
func (e RoundResolvedEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundResolvedEvent creates a new round resolved event
func NewRoundResolvedEvent(outcome Outcome, score Score, at time.Time) RoundResolvedEvent {
	return RoundResolvedEvent{Outcome: outcome, Score: score, timestamp: at}
}

// ScoreResetEvent is published once per successful reset
type ScoreResetEvent struct {
	Score     Score
	timestamp time.Time
}

func (e ScoreResetEvent) EventType() EventType { return EventTypeScoreReset }
func (e ScoreResetEvent) Timestamp() time.Time { return e.timestamp }

// NewScoreResetEvent creates a new score reset event
func NewScoreResetEvent(score Score, at time.Time) ScoreResetEvent {
	return ScoreResetEvent{Score: score, timestamp: at}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous, in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Only subscribers
// of a comparable type, such as pointers, can be removed; funcs and structs
// holding slices or maps are left subscribed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if subscriber == nil || !reflect.TypeOf(subscriber).Comparable() {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		// Equal dynamic types are both comparable here, so == cannot panic
		if reflect.TypeOf(sub) != reflect.TypeOf(subscriber) {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subscribers := make([]EventSubscriber, len(bus.subscribers))
	copy(subscribers, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.OnEvent(event)
	}
}

// EventFormatter turns events into the short lines shown to a player
type EventFormatter struct {
	ShowEmoji bool
}

// FormatResult returns the headline for an outcome
func (ef EventFormatter) FormatResult(w Winner) string {
	switch w {
	case PlayerWins:
		return ef.decorate("You Win!", "🎉")
	case BotWins:
		return ef.decorate("Bot Wins!", "🤖")
	default:
		return ef.decorate("It's a Draw!", "🤝")
	}
}

// FormatRoundResolved formats a resolved round as "rock vs paper: Bot Wins!"
func (ef EventFormatter) FormatRoundResolved(event RoundResolvedEvent) string {
	return fmt.Sprintf("%s vs %s: %s (%d-%d)",
		ef.choice(event.Outcome.Player),
		ef.choice(event.Outcome.Bot),
		ef.FormatResult(event.Outcome.Winner),
		event.Score.Player, event.Score.Bot)
}

// FormatBotThinking formats the start of a round
func (ef EventFormatter) FormatBotThinking(event BotThinkingEvent) string {
	return fmt.Sprintf("You picked %s. Bot is choosing...", ef.choice(event.Player))
}

// FormatScoreReset formats a reset
func (ef EventFormatter) FormatScoreReset(ScoreResetEvent) string {
	return "Scores reset. Make your move!"
}

func (ef EventFormatter) choice(c Choice) string {
	if ef.ShowEmoji {
		return c.Label()
	}
	return c.Name
}

func (ef EventFormatter) decorate(text, emoji string) string {
	if ef.ShowEmoji {
		return text + " " + emoji
	}
	return text
}
