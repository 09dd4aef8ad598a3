package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	CreateSession(ctx context.Context, mode entity.Mode) (*entity.GameView, error)
	GetSession(ctx context.Context, id string) (*entity.GameView, error)
	DeleteSession(ctx context.Context, id string) error

	SelectCell(ctx context.Context, id string, index int) (*entity.GameView, error)
	PlayComputerTurn(ctx context.Context, id string) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
	ToggleMode(ctx context.Context, id string) (*entity.GameView, error)
}

type Server struct {
	logger *slog.Logger
	router chi.Router
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	log := logger.With("component", "rest")
	h := &handlers{logger: log, gameManager: gameManager}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/ping", h.ping)
	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Post("/cells/{index}", h.selectCell)
		r.Post("/restart", h.restart)
		r.Post("/mode", h.toggleMode)
	})

	return &Server{logger: log, router: r}
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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

func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}
