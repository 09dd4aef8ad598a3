package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	ChooseMove(ctx context.Context, board entity.Board, player entity.Mark) (int, error)
}

// GameManager turns presentation events into session transitions. Every
// operation on a session holds that session's lock, so a computer turn never
// interleaves with a human one.
type GameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	botService  botService

	computerDelay time.Duration

	locksMutex sync.Mutex
	locks      map[string]*sessionLock
}

// sessionLock is dropped from GameManager.locks once nobody holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, botService botService, computerDelay time.Duration) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		botService:  botService,

		computerDelay: computerDelay,
		locks:         make(map[string]*sessionLock),
	}
}

func (that *GameManager) CreateSession(ctx context.Context, mode entity.Mode) (*entity.GameView, error) {
	session := entity.NewGameSession(uuid.NewString(), mode)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "mode", mode)

	return tictactoe.View(*session), nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.GameView, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return tictactoe.View(*session), nil
}

func (that *GameManager) DeleteSession(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "sessionID", id)

	return nil
}

// SelectCell plays a human move. A rejected move wraps
// apperror.ErrInvalidMove and comes with the unchanged view.
func (that *GameManager) SelectCell(ctx context.Context, id string, index int) (*entity.GameView, error) {
	log := that.logger.With("method", "SelectCell", "sessionID", id, "cell", index)

	unlock := that.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.AwaitingComputer() {
		log.Debug("ignored move during computer turn")
		return tictactoe.View(*session), fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	if err = that.play(ctx, session, index); err != nil {
		if errors.Is(err, apperror.ErrInvalidMove) {
			log.Debug("ignored invalid move", "error", err)
		}

		return tictactoe.View(*session), err
	}

	return tictactoe.View(*session), nil
}

// PlayComputerTurn waits for the presentational delay and then lets the
// computer answer. It is a no-op when the session is not waiting for it,
// e.g. after a restart during the delay.
func (that *GameManager) PlayComputerTurn(ctx context.Context, id string) (*entity.GameView, error) {
	log := that.logger.With("method", "PlayComputerTurn", "sessionID", id)

	if that.computerDelay > 0 {
		timer := time.NewTimer(that.computerDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("computer turn canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	unlock := that.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !session.AwaitingComputer() {
		return tictactoe.View(*session), nil
	}

	index, err := that.botService.ChooseMove(ctx, session.Board, session.CurrentPlayer)
	if err != nil {
		log.Error("computer could not choose a move", "board", session.Board.Key(), "error", err)
		return nil, fmt.Errorf("failed to choose computer move: %w", err)
	}

	if err = that.play(ctx, session, index); err != nil {
		log.Error("computer move rejected", "cell", index, "error", err)
		return nil, fmt.Errorf("failed to play computer move: %w", err)
	}

	log.Debug("computer played", "cell", index)

	return tictactoe.View(*session), nil
}

func (that *GameManager) Restart(ctx context.Context, id string) (*entity.GameView, error) {
	return that.update(ctx, id, func(session *entity.GameSession) {
		session.Reset()
	})
}

func (that *GameManager) ToggleMode(ctx context.Context, id string) (*entity.GameView, error) {
	return that.update(ctx, id, func(session *entity.GameSession) {
		session.ToggleMode()
	})
}

func (that *GameManager) update(ctx context.Context, id string, mutate func(session *entity.GameSession)) (*entity.GameView, error) {
	unlock := that.lock(id)
	defer unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	mutate(session)

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return tictactoe.View(*session), nil
}

// play applies a move for the current player, resolves the turn and stores
// the session. On error the stored session is untouched.
func (that *GameManager) play(ctx context.Context, session *entity.GameSession, index int) error {
	if err := session.ApplyMove(index); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	outcome := tictactoe.ResolveTurn(session)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if outcome.IsTerminal() {
		that.logger.Info("game over", "sessionID", session.ID, "outcome", outcome.Kind, "winner", outcome.Winner)
	}

	return nil
}

func (that *GameManager) lock(id string) func() {
	that.locksMutex.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{}
		that.locks[id] = l
	}
	l.refs++
	that.locksMutex.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		that.locksMutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMutex.Unlock()
	}
}
