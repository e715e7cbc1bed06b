package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBus(t *testing.T) {
	t.Run("delivers in subscription order", func(t *testing.T) {
		bus := NewEventBus()
		var order []string
		bus.Subscribe(EventSubscriberFunc(func(GameEvent) { order = append(order, "first") }))
		bus.Subscribe(EventSubscriberFunc(func(GameEvent) { order = append(order, "second") }))

		bus.Publish(NewScoreResetEvent(Score{}, time.Now()))

		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewEventBus()
		recorder := &eventRecorder{}
		bus.Subscribe(recorder)
		bus.Publish(NewBotThinkingEvent(Choice{Name: "rock"}, time.Now()))

		bus.Unsubscribe(recorder)
		bus.Publish(NewBotThinkingEvent(Choice{Name: "paper"}, time.Now()))

		assert.Len(t, recorder.Events(), 1)
	})

	t.Run("func subscribers survive unsubscribe of others", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		recorder := &eventRecorder{}
		bus.Subscribe(EventSubscriberFunc(func(GameEvent) { calls++ }))
		bus.Subscribe(recorder)

		bus.Unsubscribe(recorder)
		bus.Publish(NewScoreResetEvent(Score{}, time.Now()))

		assert.Equal(t, 1, calls)
		assert.Empty(t, recorder.Events())
	})
}

// sliceSubscriber is a non-comparable subscriber value
type sliceSubscriber struct {
	seen *[]EventType
	tags []string
}

func (s sliceSubscriber) OnEvent(event GameEvent) {
	*s.seen = append(*s.seen, event.EventType())
}

func TestEventBusUnsubscribeNonComparable(t *testing.T) {
	bus := NewEventBus()
	var first, second []EventType
	a := sliceSubscriber{seen: &first, tags: []string{"a"}}
	b := sliceSubscriber{seen: &second, tags: []string{"b"}}
	recorder := &eventRecorder{}
	bus.Subscribe(a)
	bus.Subscribe(b)
	bus.Subscribe(recorder)

	assert.NotPanics(t, func() { bus.Unsubscribe(b) })
	assert.NotPanics(t, func() { bus.Unsubscribe(nil) })
	bus.Unsubscribe(recorder)

	bus.Publish(NewScoreResetEvent(Score{}, time.Now()))

	assert.Equal(t, []EventType{EventTypeScoreReset}, first)
	assert.Equal(t, []EventType{EventTypeScoreReset}, second)
	assert.Empty(t, recorder.Events())
}

func TestEventTypes(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	thinking := NewBotThinkingEvent(Choice{Name: "rock"}, now)
	assert.Equal(t, EventTypeBotThinking, thinking.EventType())
	assert.Equal(t, now, thinking.Timestamp())

	resolved := NewRoundResolvedEvent(Outcome{Winner: BotWins}, Score{Bot: 1}, now)
	assert.Equal(t, EventTypeRoundResolved, resolved.EventType())
	assert.Equal(t, "round_resolved", resolved.EventType().String())

	reset := NewScoreResetEvent(Score{}, now)
	assert.Equal(t, EventTypeScoreReset, reset.EventType())
}

func TestEventFormatter(t *testing.T) {
	rock := Choice{Name: "rock", Emoji: "🪨"}
	paper := Choice{Name: "paper", Emoji: "📄"}
	resolved := NewRoundResolvedEvent(
		Outcome{Winner: BotWins, Player: rock, Bot: paper},
		Score{Player: 2, Bot: 3},
		time.Now(),
	)

	t.Run("plain", func(t *testing.T) {
		f := EventFormatter{}
		assert.Equal(t, "You Win!", f.FormatResult(PlayerWins))
		assert.Equal(t, "rock vs paper: Bot Wins! (2-3)", f.FormatRoundResolved(resolved))
		assert.Equal(t, "You picked rock. Bot is choosing...",
			f.FormatBotThinking(NewBotThinkingEvent(rock, time.Now())))
	})

	t.Run("with emoji", func(t *testing.T) {
		f := EventFormatter{ShowEmoji: true}
		assert.Equal(t, "It's a Draw! 🤝", f.FormatResult(Draw))
		assert.Equal(t, "🪨 rock vs 📄 paper: Bot Wins! 🤖 (2-3)", f.FormatRoundResolved(resolved))
	})

	assert.Equal(t, "Scores reset. Make your move!",
		EventFormatter{}.FormatScoreReset(NewScoreResetEvent(Score{}, time.Now())))
}
