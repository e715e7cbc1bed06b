package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rpsbot/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testTable(t *testing.T) *game.Table {
	t.Helper()
	table, err := game.NewTable(game.DefaultChoices())
	require.NoError(t, err)
	return table
}

// startTestServer runs a server whose bot always picks botPick and resolves
// rounds without delay
func startTestServer(t *testing.T, botPick int) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer("127.0.0.1:0", testTable(t), testLogger(),
		game.WithDelay(0),
		game.WithPicker(game.PickerFunc(func(int) int { return botPick })))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func sendMessage(t *testing.T, conn *websocket.Conn, msgType MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func decode[T any](t *testing.T, msg Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func TestServerHealth(t *testing.T) {
	_, ts := startTestServer(t, 0)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestWelcomeListsChoices(t *testing.T) {
	_, ts := startTestServer(t, 0)
	conn := dial(t, ts)

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeWelcome, msg.Type)

	welcome := decode[WelcomeData](t, msg)
	assert.NotEmpty(t, welcome.SessionID)
	require.Len(t, welcome.Choices, 4)
	assert.Equal(t, "rock", welcome.Choices[0].Name)
	assert.Equal(t, []string{"scissors", "stone"}, welcome.Choices[0].Beats)
	assert.Equal(t, ScoreData{}, welcome.Score)
	assert.Zero(t, welcome.DelayMs)
}

func TestPlayRound(t *testing.T) {
	_, ts := startTestServer(t, 2) // bot picks scissors
	conn := dial(t, ts)
	readMessage(t, conn) // welcome

	sendMessage(t, conn, MessageTypePlay, PlayData{Choice: "rock"})

	thinking := readMessage(t, conn)
	require.Equal(t, MessageTypeBotThinking, thinking.Type)
	assert.Equal(t, "rock", decode[BotThinkingData](t, thinking).Player)

	resolved := readMessage(t, conn)
	require.Equal(t, MessageTypeRoundResolved, resolved.Type)
	data := decode[RoundResolvedData](t, resolved)
	assert.Equal(t, "player", data.Winner)
	assert.Equal(t, "rock", data.Player)
	assert.Equal(t, "scissors", data.Bot)
	assert.Equal(t, ScoreData{Player: 1}, data.Score)

	sendMessage(t, conn, MessageTypeReset, nil)
	reset := readMessage(t, conn)
	require.Equal(t, MessageTypeScoreReset, reset.Type)
	assert.Equal(t, ScoreData{}, decode[ScoreResetData](t, reset).Score)
}

func TestSessionsHaveIndependentScores(t *testing.T) {
	_, ts := startTestServer(t, 2)
	first := dial(t, ts)
	second := dial(t, ts)
	readMessage(t, first)
	readMessage(t, second)

	sendMessage(t, first, MessageTypePlay, PlayData{Choice: "rock"})
	readMessage(t, first)
	readMessage(t, first)

	sendMessage(t, second, MessageTypePlay, PlayData{Choice: "paper"})
	readMessage(t, second)
	resolved := decode[RoundResolvedData](t, readMessage(t, second))
	assert.Equal(t, "bot", resolved.Winner)
	assert.Equal(t, ScoreData{Bot: 1}, resolved.Score)
}

func TestErrors(t *testing.T) {
	_, ts := startTestServer(t, 0)
	conn := dial(t, ts)
	readMessage(t, conn)

	t.Run("invalid choice", func(t *testing.T) {
		sendMessage(t, conn, MessageTypePlay, PlayData{Choice: "lizard"})
		msg := readMessage(t, conn)
		require.Equal(t, MessageTypeError, msg.Type)
		data := decode[ErrorData](t, msg)
		assert.Equal(t, "invalid_choice", data.Code)
		assert.Contains(t, data.Message, "lizard")
	})

	t.Run("unknown message type", func(t *testing.T) {
		sendMessage(t, conn, MessageType("spin"), nil)
		msg := readMessage(t, conn)
		require.Equal(t, MessageTypeError, msg.Type)
		assert.Equal(t, "unknown_message_type", decode[ErrorData](t, msg).Code)
	})

	t.Run("malformed json keeps the session", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
		msg := readMessage(t, conn)
		require.Equal(t, MessageTypeError, msg.Type)
		assert.Equal(t, "invalid_message", decode[ErrorData](t, msg).Code)

		sendMessage(t, conn, MessageTypePlay, PlayData{Choice: "rock"})
		assert.Equal(t, MessageTypeBotThinking, readMessage(t, conn).Type)
	})
}

func TestDisconnectClosesSession(t *testing.T) {
	srv, ts := startTestServer(t, 0)
	conn := dial(t, ts)
	readMessage(t, conn)

	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return srv.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := startTestServer(t, 2)
	conn := dial(t, ts)
	readMessage(t, conn)

	sendMessage(t, conn, MessageTypePlay, PlayData{Choice: "rock"})
	readMessage(t, conn)
	readMessage(t, conn)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `rpsbot_rounds_total{winner="player"} 1`)
	assert.Contains(t, string(body), `rpsbot_rounds_total{winner="bot"} 0`)
	assert.Contains(t, string(body), "rpsbot_sessions_active 1")
}

func TestMessageFromEvent(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rock := game.Choice{Name: "rock"}
	paper := game.Choice{Name: "paper"}

	msg, err := MessageFromEvent(game.NewRoundResolvedEvent(
		game.Outcome{Winner: game.BotWins, Player: rock, Bot: paper},
		game.Score{Bot: 2, Draws: 1}, at))
	require.NoError(t, err)

	assert.Equal(t, MessageTypeRoundResolved, msg.Type)
	assert.Equal(t, at, msg.Timestamp)
	assert.JSONEq(t, `{"winner":"bot","player":"rock","bot":"paper","score":{"player":0,"bot":2,"draws":1}}`, string(msg.Data))
}
