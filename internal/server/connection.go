package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/rpsbot/internal/game"
)

// Connection is one browser session: a websocket plus the controller that
// owns its score.
type Connection struct {
	id        string
	conn      *websocket.Conn
	ctrl      *game.Controller
	send      chan *Message
	logger    *log.Logger
	metrics   *Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper and subscribes it to the
// controller's events
func NewConnection(id string, conn *websocket.Conn, ctrl *game.Controller, logger *log.Logger, metrics *Metrics) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		id:      id,
		conn:    conn,
		ctrl:    ctrl,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn").With("session", id),
		metrics: metrics,
		ctx:     ctx,
		cancel:  cancel,
	}
	// Metrics first so counters are current by the time a client sees the event
	if metrics != nil {
		ctrl.EventBus().Subscribe(metrics)
	}
	ctrl.EventBus().Subscribe(c)
	return c
}

// ID returns the session ID
func (c *Connection) ID() string {
	return c.id
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Start sends the welcome message and begins handling the connection
func (c *Connection) Start() {
	table := c.ctrl.Table()
	choices := make([]ChoiceInfo, 0, table.Len())
	for _, choice := range table.Choices() {
		choices = append(choices, ChoiceInfoFromGame(choice))
	}
	welcome, err := NewMessage(MessageTypeWelcome, WelcomeData{
		SessionID: c.id,
		Choices:   choices,
		Score:     ScoreDataFromGame(c.ctrl.Score()),
		DelayMs:   c.ctrl.Delay().Milliseconds(),
	})
	if err == nil {
		_ = c.SendMessage(welcome)
	}

	go c.writePump()
	go c.readPump()
}

// Close cancels any pending round and closes the socket
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.ctrl.Close()
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// OnEvent forwards controller events to the client
func (c *Connection) OnEvent(event game.GameEvent) {
	msg, err := MessageFromEvent(event)
	if err != nil {
		c.logger.Error("Failed to convert event", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError("invalid_message", "Failed to parse message")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypePlay:
		var data PlayData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse play data")
			return
		}
		c.handlePlay(data)

	case MessageTypeReset:
		c.ctrl.Reset()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handlePlay(data PlayData) {
	err := c.ctrl.RequestRound(data.Choice)

	var invalid *game.InvalidChoiceError
	switch {
	case err == nil:
	case errors.As(err, &invalid):
		if c.metrics != nil {
			c.metrics.invalidChoices.Inc()
		}
		c.sendError("invalid_choice", invalid.Error())
	case errors.Is(err, game.ErrClosed):
	default:
		c.logger.Error("Round request failed", "error", err)
		c.sendError("play_failed", err.Error())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
