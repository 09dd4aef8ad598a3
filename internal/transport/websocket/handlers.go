package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var errNoActiveGame = errors.New("no active game, send game:new first")

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	var payload NewGamePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return c.send(msg.Action, ResponsePayload{Error: "malformed payload"})
		}
	}

	mode, err := entity.ParseMode(payload.Mode)
	if err != nil {
		return c.send(msg.Action, ResponsePayload{Error: err.Error()})
	}

	if c.sessionID != "" {
		if err = that.gameManager.DeleteSession(ctx, c.sessionID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
			that.logger.Warn("failed to delete previous session", "sessionID", c.sessionID, "error", err)
		}
		c.sessionID = ""
	}

	view, err := that.gameManager.CreateSession(ctx, mode)
	if err != nil {
		return that.reply(c, msg.Action, nil, err)
	}

	c.sessionID = view.ID

	return that.reply(c, msg.Action, view, nil)
}

func (that *Server) handleGameState(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return c.send(msg.Action, ResponsePayload{Error: errNoActiveGame.Error()})
	}

	view, err := that.gameManager.GetSession(ctx, c.sessionID)

	return that.reply(c, msg.Action, view, err)
}

// handleSelectCell answers with the human move at once. When the computer is
// to reply, its move follows as a second cell:select message.
func (that *Server) handleSelectCell(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return c.send(msg.Action, ResponsePayload{Error: errNoActiveGame.Error()})
	}

	var payload SelectCellPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Index == nil {
		return c.send(msg.Action, ResponsePayload{Error: "payload must contain a cell index"})
	}

	view, err := that.gameManager.SelectCell(ctx, c.sessionID, *payload.Index)
	if err = that.reply(c, msg.Action, view, err); err != nil {
		return err
	}

	if view != nil && view.ComputerThinking {
		id := c.sessionID
		c.goBackground(func() {
			that.playComputerTurn(ctx, c, id)
		})
	}

	return nil
}

func (that *Server) handleRestart(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return c.send(msg.Action, ResponsePayload{Error: errNoActiveGame.Error()})
	}

	view, err := that.gameManager.Restart(ctx, c.sessionID)

	return that.reply(c, msg.Action, view, err)
}

func (that *Server) handleToggleMode(ctx context.Context, c *client, msg *Message) error {
	if c.sessionID == "" {
		return c.send(msg.Action, ResponsePayload{Error: errNoActiveGame.Error()})
	}

	view, err := that.gameManager.ToggleMode(ctx, c.sessionID)

	return that.reply(c, msg.Action, view, err)
}

func (that *Server) playComputerTurn(ctx context.Context, c *client, id string) {
	log := that.logger.With("method", "playComputerTurn", "sessionID", id)

	view, err := that.gameManager.PlayComputerTurn(ctx, id)
	if errors.Is(err, context.Canceled) || errors.Is(err, apperror.ErrSessionNotFound) {
		log.Debug("computer turn abandoned", "error", err)
		return
	}

	if err = that.reply(c, actionSelectCell, view, err); err != nil {
		log.Error("failed to send computer move", "error", err)
	}
}

// reply sends the view for action. Rejected moves carry the unchanged view
// and the reason; other failures are reported to the peer and returned.
func (that *Server) reply(c *client, action string, view *entity.GameView, err error) error {
	switch {
	case err == nil:
		return c.send(action, ResponsePayload{Game: view})
	case errors.Is(err, apperror.ErrInvalidMove):
		return c.send(action, ResponsePayload{Game: view, Error: err.Error()})
	case errors.Is(err, apperror.ErrSessionNotFound):
		return c.send(action, ResponsePayload{Error: apperror.ErrSessionNotFound.Error()})
	default:
		if sendErr := c.send(action, ResponsePayload{Error: "internal error"}); sendErr != nil {
			return fmt.Errorf("%w: %w", err, sendErr)
		}

		return err
	}
}
