package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
}

type createSessionRequest struct {
	Mode string `json:"mode"`
}

type gameResponse struct {
	Game  *entity.GameView `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "malformed request body"})
		return
	}

	mode, err := entity.ParseMode(req.Mode)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: err.Error()})
		return
	}

	view, err := that.gameManager.CreateSession(r.Context(), mode)
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: view})
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameManager.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: view})
}

func (that *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.gameManager.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// selectCell plays the human move and, against the computer, its reply.
func (that *handlers) selectCell(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "cell index must be a number"})
		return
	}

	view, err := that.gameManager.SelectCell(r.Context(), id, index)
	if err != nil {
		that.writeError(w, r, err, view)
		return
	}

	if view.ComputerThinking {
		view, err = that.gameManager.PlayComputerTurn(r.Context(), id)
		if err != nil {
			that.writeError(w, r, err, nil)
			return
		}
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: view})
}

func (that *handlers) restart(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameManager.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: view})
}

func (that *handlers) toggleMode(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameManager.ToggleMode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: view})
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error, view *entity.GameView) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, gameResponse{Error: "session not found"})
	case errors.Is(err, apperror.ErrInvalidMove):
		that.writeJSON(w, http.StatusConflict, gameResponse{Game: view, Error: err.Error()})
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "Internal Server Error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body gameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
