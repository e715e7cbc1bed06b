// Package game implements the rules and round flow for rock-paper-scissors
// style games played against a random bot.
//
// The rules live in a Table of Choices. Each Choice names the other choices
// it defeats, and NewTable validates that the relation is consistent before
// any round can be played:
//
//	table, err := game.NewTable(game.DefaultChoices())
//	if err != nil {
//	    // *game.ConfigError
//	}
//	outcome := game.Resolve(table.MustGet("rock"), table.MustGet("paper"))
//
// # Rounds
//
// Controller owns the score and gates one round at a time. A round moves
// from Idle to InProgress when the player picks, the bot picks through the
// injected Picker, and the result is resolved after a delay scheduled on
// the injected quartz.Clock:
//
//	c := game.NewController(table, logger,
//	    game.WithClock(quartz.NewReal()),
//	    game.WithPicker(randutil.NewPicker(seed)),
//	    game.WithDelay(2*time.Second))
//	c.EventBus().Subscribe(listener)
//	_ = c.RequestRound("rock")
//
// Listeners receive BotThinkingEvent, RoundResolvedEvent and
// ScoreResetEvent. Requests made while a round is in progress are ignored.
//
// # Deterministic Testing
//
// Tests inject quartz.NewMock(t) and a fixed Picker, then advance virtual
// time to fire the pending resolution synchronously.
package game
