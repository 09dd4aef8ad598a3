package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const moveKeyPrefix = "move:"

// MoveCacheRepository remembers the searched move for a position. Search is
// deterministic, so an entry stays valid forever; the TTL only bounds memory.
type MoveCacheRepository interface {
	Get(ctx context.Context, board entity.Board, player entity.Mark) (int, bool, error)
	Set(ctx context.Context, board entity.Board, player entity.Mark, index int) error
}

func moveKey(board entity.Board, player entity.Mark) string {
	return moveKeyPrefix + board.Key() + ":" + string(player)
}

type redisMoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMoveCache(client *redis.Client, ttl time.Duration) MoveCacheRepository {
	return &redisMoveCache{
		client: client,
		ttl:    ttl,
	}
}

func (that *redisMoveCache) Get(ctx context.Context, board entity.Board, player entity.Mark) (int, bool, error) {
	index, err := that.client.Get(ctx, moveKey(board, player)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("failed to get cached move: %w", err)
	}

	return index, true, nil
}

func (that *redisMoveCache) Set(ctx context.Context, board entity.Board, player entity.Mark, index int) error {
	if err := that.client.Set(ctx, moveKey(board, player), index, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache move: %w", err)
	}

	return nil
}

type memoryMoveCache struct {
	mu    sync.RWMutex
	moves map[string]int
}

// NewMemoryMoveCache is used when Redis is disabled. There are fewer than
// 6000 reachable positions, so the map needs no eviction.
func NewMemoryMoveCache() MoveCacheRepository {
	return &memoryMoveCache{
		moves: make(map[string]int),
	}
}

func (that *memoryMoveCache) Get(_ context.Context, board entity.Board, player entity.Mark) (int, bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	index, ok := that.moves[moveKey(board, player)]

	return index, ok, nil
}

func (that *memoryMoveCache) Set(_ context.Context, board entity.Board, player entity.Mark, index int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.moves[moveKey(board, player)] = index

	return nil
}
