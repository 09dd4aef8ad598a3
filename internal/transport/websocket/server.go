package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
)

type gameManager interface {
	CreateSession(ctx context.Context, mode entity.Mode) (*entity.GameView, error)
	GetSession(ctx context.Context, id string) (*entity.GameView, error)
	DeleteSession(ctx context.Context, id string) error

	SelectCell(ctx context.Context, id string, index int) (*entity.GameView, error)
	PlayComputerTurn(ctx context.Context, id string) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
	ToggleMode(ctx context.Context, id string) (*entity.GameView, error)
}

type handlerFunc func(ctx context.Context, client *client, message *Message) error

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionSelectCell] = server.handleSelectCell
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionToggleMode] = server.handleToggleMode

	return server
}

func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", that.serveWS)

	return r
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the connection and serves it until the peer leaves.
// The session owned by the connection is removed afterwards.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	c := &client{conn: conn}

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	if err = that.handleMessages(ctx, c); err != nil {
		log.Debug("connection closed", "error", err)
	}

	cancel()
	c.wait()

	if c.sessionID != "" {
		if err = that.gameManager.DeleteSession(context.Background(), c.sessionID); err != nil {
			log.Warn("failed to delete session", "sessionID", c.sessionID, "error", err)
		}
	}

	if err = conn.Close(); err != nil {
		log.Debug("failed to close connection", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = c.send(actionError, ResponsePayload{Error: "malformed message"}); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err = c.send(message.Action, ResponsePayload{Error: "unknown action"}); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// client is a single connection. gorilla allows one concurrent writer, so
// every write goes through send.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex
	background sync.WaitGroup

	sessionID string
}

func (that *client) send(action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) goBackground(fn func()) {
	that.background.Add(1)

	go func() {
		defer that.background.Done()
		fn()
	}()
}

func (that *client) wait() {
	that.background.Wait()
}
