package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const BoardSize = 9

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Opponent returns the other player. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Mode string

const (
	ModeTwoPlayer  Mode = "two_player"
	ModeVsComputer Mode = "vs_computer"
)

func ParseMode(value string) (Mode, error) {
	switch mode := Mode(value); mode {
	case ModeTwoPlayer, ModeVsComputer:
		return mode, nil
	case "":
		return ModeTwoPlayer, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMode, value)
	}
}

// Board is a 3x3 grid stored row-major.
type Board [BoardSize]Mark

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// EmptyCells returns the indexes of empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// Valid reports whether the board could occur in a game where X moves first.
func (that Board) Valid() bool {
	diff := that.Count(PlayerX) - that.Count(PlayerO)
	return diff == 0 || diff == 1
}

// Key encodes the board as nine characters, '-' for an empty cell.
func (that Board) Key() string {
	var sb strings.Builder
	sb.Grow(BoardSize)

	for _, cell := range that {
		if cell == EmptyCell {
			sb.WriteByte('-')
			continue
		}
		sb.WriteString(string(cell))
	}

	return sb.String()
}

type GameSession struct {
	ID            string `json:"id"`
	Board         Board  `json:"board"`
	CurrentPlayer Mark   `json:"current_player"`
	Active        bool   `json:"active"`
	Mode          Mode   `json:"mode"`
}

func NewGameSession(id string, mode Mode) *GameSession {
	session := &GameSession{
		ID:   id,
		Mode: mode,
	}
	session.Reset()

	return session
}

// ApplyMove places CurrentPlayer's mark at index. It neither flips the turn
// nor checks for a terminal position.
func (that *GameSession) ApplyMove(index int) error {
	if !that.Active {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if index < 0 || index >= BoardSize {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrInvalidCell, index)
	}

	if that.Board[index] != EmptyCell {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, index)
	}

	that.Board[index] = that.CurrentPlayer

	return nil
}

func (that *GameSession) Reset() {
	that.Board = Board{}
	that.CurrentPlayer = PlayerX
	that.Active = true
}

func (that *GameSession) IsFull() bool {
	return that.Board.IsFull()
}

// ToggleMode switches between two-player and vs-computer play and starts over.
func (that *GameSession) ToggleMode() {
	if that.Mode == ModeVsComputer {
		that.Mode = ModeTwoPlayer
	} else {
		that.Mode = ModeVsComputer
	}

	that.Reset()
}

func (that *GameSession) IsVsComputer() bool {
	return that.Mode == ModeVsComputer
}

// AwaitingComputer reports whether the computer (always O) is to move.
func (that *GameSession) AwaitingComputer() bool {
	return that.IsVsComputer() && that.Active && that.CurrentPlayer == PlayerO
}
