package game

// Winner identifies who took a round.
type Winner int

const (
	Draw Winner = iota
	PlayerWins
	BotWins
)

// String returns the string representation of a winner
func (w Winner) String() string {
	switch w {
	case Draw:
		return "draw"
	case PlayerWins:
		return "player"
	case BotWins:
		return "bot"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single resolved round.
type Outcome struct {
	Winner Winner
	Player Choice
	Bot    Choice
}

// Resolve decides a round. Identical names draw, otherwise the player wins
// only if their choice beats the bot's.
func Resolve(player, bot Choice) Outcome {
	outcome := Outcome{Player: player, Bot: bot}
	switch {
	case player.Name == bot.Name:
		outcome.Winner = Draw
	case player.Defeats(bot.Name):
		outcome.Winner = PlayerWins
	default:
		outcome.Winner = BotWins
	}
	return outcome
}

// Score is the running tally for a session.
type Score struct {
	Player int
	Bot    int
	Draws  int
}

// IsZero reports whether neither side has scored. Draws are not considered.
func (s Score) IsZero() bool {
	return s.Player == 0 && s.Bot == 0
}

// Rounds returns the number of rounds the score accounts for.
func (s Score) Rounds() int {
	return s.Player + s.Bot + s.Draws
}

func (s *Score) record(w Winner) {
	switch w {
	case PlayerWins:
		s.Player++
	case BotWins:
		s.Bot++
	default:
		s.Draws++
	}
}
