// Package minimax picks optimal tic-tac-toe moves by exhaustive game-tree
// search.
//
// Scores are from O's point of view: an O win is worth WinScore, an X win
// LossScore and a draw DrawScore, regardless of how deep the terminal
// position lies. O maximizes, X minimizes, and ties go to the lowest index.
package minimax

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	WinScore  = 10
	LossScore = -10
	DrawScore = 0

	// NoMove is the index reported by terminal nodes.
	NoMove = -1
)

// Node is a candidate move paired with its minimax score.
type Node struct {
	Index int
	Score int
}

type Result struct {
	Node
	// Explored is the number of positions visited, root included.
	Explored int
}

// Search returns the best move for player on board. The board must admit a
// move: reachable mark counts, no winner yet and at least one empty cell.
func Search(board entity.Board, player entity.Mark) (Result, error) {
	if !player.IsPlayer() {
		return Result{}, fmt.Errorf("%w: player %q cannot move", apperror.ErrPreconditionViolation, player)
	}

	if !board.Valid() {
		return Result{}, fmt.Errorf("%w: board %s cannot occur in play", apperror.ErrPreconditionViolation, board.Key())
	}

	if outcome := tictactoe.EvaluateTerminal(board); outcome.IsTerminal() {
		return Result{}, fmt.Errorf("%w: board %s is already %s", apperror.ErrPreconditionViolation, board.Key(), outcome.Kind)
	}

	// board is a copy, so the search owns its buffer exclusively.
	s := &searcher{board: board}
	node := s.minimax(player)

	return Result{Node: node, Explored: s.explored}, nil
}

type searcher struct {
	board    entity.Board
	explored int
}

func (that *searcher) minimax(player entity.Mark) Node {
	that.explored++

	switch {
	case tictactoe.HasWon(that.board, entity.PlayerX):
		return Node{Index: NoMove, Score: LossScore}
	case tictactoe.HasWon(that.board, entity.PlayerO):
		return Node{Index: NoMove, Score: WinScore}
	case that.board.IsFull():
		return Node{Index: NoMove, Score: DrawScore}
	}

	maximizing := player == entity.PlayerO
	best := Node{Index: NoMove}

	for index := range that.board {
		if that.board[index] != entity.EmptyCell {
			continue
		}

		score := that.try(index, player)

		if best.Index == NoMove ||
			(maximizing && score > best.Score) ||
			(!maximizing && score < best.Score) {
			best = Node{Index: index, Score: score}
		}
	}

	return best
}

// try places player's mark at index, scores the reply and always undoes the
// placement before returning.
func (that *searcher) try(index int, player entity.Mark) int {
	that.board[index] = player
	defer func() { that.board[index] = entity.EmptyCell }()

	return that.minimax(player.Opponent()).Score
}
