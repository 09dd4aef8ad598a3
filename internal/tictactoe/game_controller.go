package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// WinCombos are the rows, columns and diagonals of the board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type OutcomeKind string

const (
	InProgress OutcomeKind = "in_progress"
	Win        OutcomeKind = "win"
	Draw       OutcomeKind = "draw"
)

type Outcome struct {
	Kind   OutcomeKind
	Winner entity.Mark
}

func (that Outcome) IsTerminal() bool {
	return that.Kind != InProgress
}

// HasWon reports whether player holds all three cells of any winning line.
func HasWon(board entity.Board, player entity.Mark) bool {
	for _, combo := range WinCombos {
		if board[combo[0]] == player && board[combo[1]] == player && board[combo[2]] == player {
			return true
		}
	}

	return false
}

// EvaluateTerminal classifies the board. A win outranks a full board.
func EvaluateTerminal(board entity.Board) Outcome {
	switch {
	case HasWon(board, entity.PlayerX):
		return Outcome{Kind: Win, Winner: entity.PlayerX}
	case HasWon(board, entity.PlayerO):
		return Outcome{Kind: Win, Winner: entity.PlayerO}
	case board.IsFull():
		return Outcome{Kind: Draw}
	default:
		return Outcome{Kind: InProgress}
	}
}

// ResolveTurn runs after every accepted move: a terminal board ends the
// session, otherwise the turn passes to the other player.
func ResolveTurn(session *entity.GameSession) Outcome {
	outcome := EvaluateTerminal(session.Board)
	if outcome.IsTerminal() {
		session.Active = false
		return outcome
	}

	session.CurrentPlayer = session.CurrentPlayer.Opponent()

	return outcome
}

// Describe returns the status line shown to players.
func Describe(session entity.GameSession) entity.Status {
	if session.Active {
		return entity.TurnStatus(session.CurrentPlayer)
	}

	outcome := EvaluateTerminal(session.Board)
	if outcome.Kind == Win {
		return entity.WinStatus(outcome.Winner)
	}

	return entity.DrawStatus()
}

func View(session entity.GameSession) *entity.GameView {
	return entity.NewGameView(session, Describe(session))
}
