package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	actionNewGame    = "game:new"
	actionGameState  = "game:state"
	actionSelectCell = "cell:select"
	actionRestart    = "game:restart"
	actionToggleMode = "mode:toggle"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type NewGamePayload struct {
	Mode string `json:"mode"`
}

type SelectCellPayload struct {
	Index *int `json:"index"`
}

type ResponsePayload struct {
	Game  *entity.GameView `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}
