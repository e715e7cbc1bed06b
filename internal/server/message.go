package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/rpsbot/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	return newMessageAt(messageType, data, time.Now())
}

func newMessageAt(messageType MessageType, data any, at time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: at,
	}, nil
}

// Client → Server Messages

type PlayData struct {
	Choice string `json:"choice"`
}

// Server → Client Messages

type ChoiceInfo struct {
	Name  string   `json:"name"`
	Key   string   `json:"key,omitempty"`
	Emoji string   `json:"emoji,omitempty"`
	Beats []string `json:"beats"`
}

type ScoreData struct {
	Player int `json:"player"`
	Bot    int `json:"bot"`
	Draws  int `json:"draws"`
}

type WelcomeData struct {
	SessionID string       `json:"sessionId"`
	Choices   []ChoiceInfo `json:"choices"`
	Score     ScoreData    `json:"score"`
	DelayMs   int64        `json:"delayMs"`
}

type BotThinkingData struct {
	Player string `json:"player"`
}

type RoundResolvedData struct {
	Winner string    `json:"winner"`
	Player string    `json:"player"`
	Bot    string    `json:"bot"`
	Score  ScoreData `json:"score"`
}

type ScoreResetData struct {
	Score ScoreData `json:"score"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScoreDataFromGame converts a game score
func ScoreDataFromGame(s game.Score) ScoreData {
	return ScoreData{Player: s.Player, Bot: s.Bot, Draws: s.Draws}
}

// ChoiceInfoFromGame converts a game choice
func ChoiceInfoFromGame(c game.Choice) ChoiceInfo {
	beats := c.Beats
	if beats == nil {
		beats = []string{}
	}
	return ChoiceInfo{Name: c.Name, Key: c.Key, Emoji: c.Emoji, Beats: beats}
}

// MessageFromEvent converts a controller event into its wire message
func MessageFromEvent(event game.GameEvent) (*Message, error) {
	switch e := event.(type) {
	case game.BotThinkingEvent:
		return newMessageAt(MessageTypeBotThinking, BotThinkingData{Player: e.Player.Name}, e.Timestamp())
	case game.RoundResolvedEvent:
		return newMessageAt(MessageTypeRoundResolved, RoundResolvedData{
			Winner: e.Outcome.Winner.String(),
			Player: e.Outcome.Player.Name,
			Bot:    e.Outcome.Bot.Name,
			Score:  ScoreDataFromGame(e.Score),
		}, e.Timestamp())
	case game.ScoreResetEvent:
		return newMessageAt(MessageTypeScoreReset, ScoreResetData{Score: ScoreDataFromGame(e.Score)}, e.Timestamp())
	default:
		return nil, fmt.Errorf("unsupported event type: %s", event.EventType())
	}
}
