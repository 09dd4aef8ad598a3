package apperror

import "errors"

var (
	// ErrInvalidMove groups every rejected move. Callers recover from it locally.
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")

	// ErrPreconditionViolation means the search was asked to play a position
	// that admits no move. It is a programming fault in the caller.
	ErrPreconditionViolation = errors.New("search precondition violated")

	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidMode     = errors.New("invalid game mode")
)
