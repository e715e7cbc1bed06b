package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypePlay  MessageType = "play"
	MessageTypeReset MessageType = "reset"

	// Server to client messages
	MessageTypeWelcome       MessageType = "welcome"
	MessageTypeBotThinking   MessageType = "bot_thinking"
	MessageTypeRoundResolved MessageType = "round_resolved"
	MessageTypeScoreReset    MessageType = "score_reset"
	MessageTypeError         MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
