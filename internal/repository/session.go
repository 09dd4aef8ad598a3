package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	DeleteByID(ctx context.Context, id string) error
}

// memorySession keeps sessions for the lifetime of the process only.
// Stored values are copies, so callers never alias the stored board.
type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]entity.GameSession
}

func NewSessionRepository() SessionRepository {
	return &memorySession{
		sessions: make(map[string]entity.GameSession),
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.GameSession) error {
	if session.ID == "" {
		return fmt.Errorf("%w: empty id", apperror.ErrSessionNotFound)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = *session

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.GameSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrSessionNotFound, id)
	}

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return fmt.Errorf("%w: id %s", apperror.ErrSessionNotFound, id)
	}

	delete(that.sessions, id)

	return nil
}
