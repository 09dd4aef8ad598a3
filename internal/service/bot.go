package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

type BotService interface {
	ChooseMove(ctx context.Context, board entity.Board, player entity.Mark) (int, error)
}

type moveCache interface {
	Get(ctx context.Context, board entity.Board, player entity.Mark) (int, bool, error)
	Set(ctx context.Context, board entity.Board, player entity.Mark, index int) error
}

type botService struct {
	logger    *slog.Logger
	moveCache moveCache
}

func NewBotService(logger *slog.Logger, moveCache moveCache) BotService {
	return &botService{
		logger:    logger.With("component", "bot"),
		moveCache: moveCache,
	}
}

// ChooseMove returns the optimal move for player. A cache failure only costs
// a fresh search.
func (that *botService) ChooseMove(ctx context.Context, board entity.Board, player entity.Mark) (int, error) {
	log := that.logger.With("method", "ChooseMove", "board", board.Key(), "player", player)

	index, ok, err := that.moveCache.Get(ctx, board, player)
	if err != nil {
		log.Warn("failed to read move cache", "error", err)
	}

	if ok && index >= 0 && index < entity.BoardSize && board[index] == entity.EmptyCell {
		log.Debug("cached move", "index", index)
		return index, nil
	}

	result, err := minimax.Search(board, player)
	if err != nil {
		return 0, fmt.Errorf("bot failed to search: %w", err)
	}

	log.Debug("searched move", "index", result.Index, "score", result.Score, "explored", result.Explored)

	if err = that.moveCache.Set(ctx, board, player, result.Index); err != nil {
		log.Warn("failed to write move cache", "error", err)
	}

	return result.Index, nil
}
