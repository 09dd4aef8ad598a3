package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-minimax/testing/suite"
)

func dial(t *testing.T) *websocket.Conn {
	t.Helper()

	return dialWithDelay(t, 0)
}

func dialWithDelay(t *testing.T, delay time.Duration) *websocket.Conn {
	t.Helper()

	logger := suite.NewLogger()
	bot := service.NewBotService(logger, repository.NewMemoryMoveCache())
	manager := usecase.NewGameManager(logger, repository.NewSessionRepository(), bot, delay)

	srv := httptest.NewServer(New(logger, manager).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, action string, payload any) (string, ResponsePayload) {
	t.Helper()

	msg := Message{Action: action}
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		msg.Payload = body
	}

	require.NoError(t, conn.WriteJSON(msg))

	return receive(t, conn)
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var resp ResponsePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &resp))

	return msg.Action, resp
}

func index(i int) SelectCellPayload {
	return SelectCellPayload{Index: &i}
}

func TestServer_TwoPlayerGame(t *testing.T) {
	conn := dial(t)

	// Given: a new two-player game
	action, resp := exchange(t, conn, actionNewGame, NewGamePayload{Mode: "two_player"})
	require.Equal(t, actionNewGame, action)
	require.Empty(t, resp.Error)
	assert.Equal(t, entity.ModeTwoPlayer, resp.Game.Mode)

	// When: X completes the left column
	for _, cell := range []int{0, 1, 3, 4, 6} {
		action, resp = exchange(t, conn, actionSelectCell, index(cell))
		require.Equal(t, actionSelectCell, action)
		require.Empty(t, resp.Error)
	}

	// Then: X has won
	assert.False(t, resp.Game.Active)
	assert.Equal(t, "Player X has won!", resp.Game.Status.Message)

	// When: a move is sent after the end
	_, resp = exchange(t, conn, actionSelectCell, index(8))

	// Then: it is rejected with the final board
	assert.Contains(t, resp.Error, "game is already finished")
	assert.Equal(t, entity.Mark(""), resp.Game.Board[8])
}

func TestServer_ComputerReplies(t *testing.T) {
	conn := dial(t)
	exchange(t, conn, actionNewGame, NewGamePayload{Mode: "vs_computer"})

	// When: the human plays the centre
	action, resp := exchange(t, conn, actionSelectCell, index(4))

	// Then: the human move comes back first with the computer thinking
	require.Equal(t, actionSelectCell, action)
	assert.True(t, resp.Game.ComputerThinking)
	assert.Equal(t, entity.PlayerX, resp.Game.Board[4])

	// And: the computer move follows
	action, resp = receive(t, conn)
	require.Equal(t, actionSelectCell, action)
	assert.False(t, resp.Game.ComputerThinking)
	assert.Equal(t, 1, resp.Game.Board.Count(entity.PlayerO))
	assert.Equal(t, entity.PlayerX, resp.Game.CurrentPlayer)
}

func TestServer_NewGameDuringComputerDelay(t *testing.T) {
	const delay = 300 * time.Millisecond
	conn := dialWithDelay(t, delay)
	exchange(t, conn, actionNewGame, NewGamePayload{Mode: "vs_computer"})

	// Given: the computer is thinking about its reply
	_, resp := exchange(t, conn, actionSelectCell, index(4))
	require.True(t, resp.Game.ComputerThinking)

	// When: a new game replaces the old one before the delay is over
	action, created := exchange(t, conn, actionNewGame, NewGamePayload{Mode: "two_player"})
	require.Equal(t, actionNewGame, action)
	time.Sleep(3 * delay)

	// Then: the abandoned computer turn sends nothing, the next reply is the state
	action, resp = exchange(t, conn, actionGameState, nil)
	assert.Equal(t, actionGameState, action)
	assert.Empty(t, resp.Error)
	assert.Equal(t, created.Game.ID, resp.Game.ID)
	assert.Equal(t, entity.Board{}, resp.Game.Board)
}

func TestServer_StateRestartToggle(t *testing.T) {
	conn := dial(t)
	_, created := exchange(t, conn, actionNewGame, nil)
	exchange(t, conn, actionSelectCell, index(2))

	_, resp := exchange(t, conn, actionGameState, nil)
	assert.Equal(t, created.Game.ID, resp.Game.ID)
	assert.Equal(t, entity.PlayerX, resp.Game.Board[2])

	_, resp = exchange(t, conn, actionRestart, nil)
	assert.Equal(t, entity.Board{}, resp.Game.Board)

	_, resp = exchange(t, conn, actionToggleMode, nil)
	assert.Equal(t, entity.ModeVsComputer, resp.Game.Mode)
}

func TestServer_Errors(t *testing.T) {
	t.Run("Actions before game:new", func(t *testing.T) {
		conn := dial(t)

		_, resp := exchange(t, conn, actionSelectCell, index(0))

		assert.Equal(t, errNoActiveGame.Error(), resp.Error)
		assert.Nil(t, resp.Game)
	})

	t.Run("Unknown action", func(t *testing.T) {
		conn := dial(t)

		action, resp := exchange(t, conn, "game:teleport", nil)

		assert.Equal(t, "game:teleport", action)
		assert.Equal(t, "unknown action", resp.Error)
	})

	t.Run("Invalid mode and missing index", func(t *testing.T) {
		conn := dial(t)

		_, resp := exchange(t, conn, actionNewGame, NewGamePayload{Mode: "solo"})
		assert.Contains(t, resp.Error, "invalid game mode")

		exchange(t, conn, actionNewGame, nil)
		_, resp = exchange(t, conn, actionSelectCell, map[string]string{})
		assert.Equal(t, "payload must contain a cell index", resp.Error)
	})

	t.Run("Occupied cell", func(t *testing.T) {
		conn := dial(t)
		exchange(t, conn, actionNewGame, nil)
		exchange(t, conn, actionSelectCell, index(0))

		_, resp := exchange(t, conn, actionSelectCell, index(0))

		assert.Contains(t, resp.Error, "cell is already occupied")
		assert.Equal(t, entity.PlayerO, resp.Game.CurrentPlayer)
	})
}
