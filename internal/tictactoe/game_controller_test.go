package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func TestHasWon(t *testing.T) {
	t.Run("Every winning line is detected for both players", func(t *testing.T) {
		for _, player := range []entity.Mark{x, o} {
			for _, combo := range WinCombos {
				// Given: a board where only this line is filled by player
				var board entity.Board
				for _, index := range combo {
					board[index] = player
				}

				// Then: player has won and the opponent has not
				assert.True(t, HasWon(board, player), "line %v", combo)
				assert.False(t, HasWon(board, player.Opponent()), "line %v", combo)
			}
		}
	})

	t.Run("Two in a row is not a win", func(t *testing.T) {
		board := entity.Board{
			x, x, e,
			o, o, e,
			e, e, e,
		}

		assert.False(t, HasWon(board, x))
		assert.False(t, HasWon(board, o))
	})
}

func TestEvaluateTerminal(t *testing.T) {
	tests := []struct {
		name  string
		board entity.Board
		want  Outcome
	}{
		{
			name: "row 0 X wins",
			board: entity.Board{
				x, x, x,
				e, o, e,
				e, o, e,
			},
			want: Outcome{Kind: Win, Winner: x},
		},
		{
			name: "col 1 O wins",
			board: entity.Board{
				x, o, e,
				e, o, x,
				x, o, e,
			},
			want: Outcome{Kind: Win, Winner: o},
		},
		{
			name: "X wins on the last cell of a full board",
			board: entity.Board{
				x, o, x,
				o, x, o,
				o, x, x,
			},
			want: Outcome{Kind: Win, Winner: x},
		},
		{
			name: "draw",
			board: entity.Board{
				x, o, x,
				x, o, o,
				o, x, x,
			},
			want: Outcome{Kind: Draw},
		},
		{
			name: "in progress",
			board: entity.Board{
				x, o, x,
				e, o, e,
				o, x, e,
			},
			want: Outcome{Kind: InProgress},
		},
		{
			name:  "empty board",
			board: entity.Board{},
			want:  Outcome{Kind: InProgress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateTerminal(tt.board)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind != InProgress, got.IsTerminal())
		})
	}
}

func TestResolveTurn(t *testing.T) {
	t.Run("Flips the player while the game continues", func(t *testing.T) {
		// Given: X has just played the center
		session := entity.NewGameSession("1", entity.ModeTwoPlayer)
		require.NoError(t, session.ApplyMove(4))

		// When: the turn is resolved
		outcome := ResolveTurn(session)

		// Then: it is O's turn and the session stays active
		assert.Equal(t, InProgress, outcome.Kind)
		assert.Equal(t, o, session.CurrentPlayer)
		assert.True(t, session.Active)
	})

	t.Run("Ends the session on a win and keeps the winner as current player", func(t *testing.T) {
		// Given: X completes the top row
		session := &entity.GameSession{
			Board: entity.Board{
				x, x, e,
				o, o, e,
				e, e, e,
			},
			CurrentPlayer: x,
			Active:        true,
		}
		require.NoError(t, session.ApplyMove(2))

		// When: the turn is resolved
		outcome := ResolveTurn(session)

		// Then: X has won and the session is inactive
		assert.Equal(t, Outcome{Kind: Win, Winner: x}, outcome)
		assert.False(t, session.Active)
		assert.Equal(t, x, session.CurrentPlayer)
		assert.Equal(t, entity.WinStatus(x), Describe(*session))
	})

	t.Run("Ends the session on a draw", func(t *testing.T) {
		// Given: X fills the last cell without a line
		session := &entity.GameSession{
			Board: entity.Board{
				x, o, x,
				x, o, o,
				o, x, e,
			},
			CurrentPlayer: x,
			Active:        true,
		}
		require.NoError(t, session.ApplyMove(8))

		// When: the turn is resolved
		outcome := ResolveTurn(session)

		// Then: the game is a draw
		assert.Equal(t, Draw, outcome.Kind)
		assert.False(t, session.Active)
		assert.Equal(t, entity.DrawStatus(), Describe(*session))
	})
}

func TestView(t *testing.T) {
	// Given: a vs-computer session where O is to move
	session := entity.NewGameSession("abc", entity.ModeVsComputer)
	require.NoError(t, session.ApplyMove(0))
	ResolveTurn(session)

	// When: the view is built
	view := View(*session)

	// Then: it reports O's turn and that the computer is thinking
	assert.Equal(t, "abc", view.ID)
	assert.Equal(t, entity.TurnStatus(o), view.Status)
	assert.True(t, view.ComputerThinking)
	assert.Equal(t, x, view.Board[0])
}

func TestEvaluateTerminal_EveryReachablePosition(t *testing.T) {
	visited := make(map[entity.Board]struct{})

	var walk func(board entity.Board, player entity.Mark)
	walk = func(board entity.Board, player entity.Mark) {
		if _, ok := visited[board]; ok {
			return
		}
		visited[board] = struct{}{}

		xWon, oWon := HasWon(board, x), HasWon(board, o)
		outcome := EvaluateTerminal(board)

		// Then: at most one player holds a line and the outcome agrees with it
		require.False(t, xWon && oWon, "both players won on %s", board.Key())

		switch {
		case xWon:
			require.Equal(t, Outcome{Kind: Win, Winner: x}, outcome, board.Key())
		case oWon:
			require.Equal(t, Outcome{Kind: Win, Winner: o}, outcome, board.Key())
		case board.IsFull():
			require.Equal(t, Outcome{Kind: Draw}, outcome, board.Key())
		default:
			require.Equal(t, Outcome{Kind: InProgress}, outcome, board.Key())
		}

		if outcome.IsTerminal() {
			return
		}

		// When: every legal move is played from here
		for _, index := range board.EmptyCells() {
			next := board
			next[index] = player
			walk(next, player.Opponent())
		}
	}

	walk(entity.Board{}, x)

	assert.Len(t, visited, 5478)
}
