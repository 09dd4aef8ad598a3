package entity

import "fmt"

type StatusKind string

const (
	StatusTurn StatusKind = "turn"
	StatusWin  StatusKind = "win"
	StatusDraw StatusKind = "draw"
)

type Status struct {
	Kind    StatusKind `json:"kind"`
	Player  Mark       `json:"player,omitempty"`
	Message string     `json:"message"`
}

func TurnStatus(player Mark) Status {
	return Status{Kind: StatusTurn, Player: player, Message: fmt.Sprintf("It's %s's turn.", player)}
}

func WinStatus(player Mark) Status {
	return Status{Kind: StatusWin, Player: player, Message: fmt.Sprintf("Player %s has won!", player)}
}

func DrawStatus() Status {
	return Status{Kind: StatusDraw, Message: "Game is a draw!"}
}

// GameView is everything a presentation layer needs to render a session.
type GameView struct {
	ID               string `json:"id"`
	Board            Board  `json:"board"`
	CurrentPlayer    Mark   `json:"current_player"`
	Active           bool   `json:"active"`
	Mode             Mode   `json:"mode"`
	Status           Status `json:"status"`
	ComputerThinking bool   `json:"computer_thinking"`
}

func NewGameView(session GameSession, status Status) *GameView {
	return &GameView{
		ID:               session.ID,
		Board:            session.Board,
		CurrentPlayer:    session.CurrentPlayer,
		Active:           session.Active,
		Mode:             session.Mode,
		Status:           status,
		ComputerThinking: session.AwaitingComputer(),
	}
}
