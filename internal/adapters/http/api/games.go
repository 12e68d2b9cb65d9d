// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/respiview/respiview/internal/adapters/repository"
	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/internal/domain/scoring"
)

// defaultMaxImportBytes bounds the accepted import payload size.
const defaultMaxImportBytes = 4 << 20

// GamesHandler handles game history requests.
type GamesHandler struct {
	deps           Dependencies
	maxImportBytes int64
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps, maxImportBytes: defaultMaxImportBytes}
}

// HandleList handles GET /api/games requests.
func (h *GamesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	games, err := h.deps.Games(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleSave handles PUT /api/games requests: persist the submitted record
// under its natural key without scoring it.
func (h *GamesHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var rec model.GameRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := validateGame(rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SaveGame(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec.WithDerivedID())
}

// scoreResponse pairs the stored record with its per-game score.
type scoreResponse struct {
	Game  model.GameRecord  `json:"game"`
	Score scoring.GameScore `json:"score"`
}

// HandleScore handles POST /api/score requests: score the submitted game
// and persist it under its natural key.
func (h *GamesHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var rec model.GameRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := validateGame(rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	score, err := h.deps.ScoreGame(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Game: rec.WithDerivedID(), Score: score})
}

func validateGame(rec model.GameRecord) error {
	switch {
	case strings.TrimSpace(rec.ChallengeDate) == "":
		return errors.New("missing challengeDate")
	case strings.TrimSpace(rec.Dataset) == "":
		return errors.New("missing dataset")
	case strings.TrimSpace(rec.Location) == "":
		return errors.New("missing location")
	case len(rec.UserForecasts) == 0:
		return errors.New("missing userForecasts")
	}
	return nil
}

// HandleGet handles GET /api/games/{id} requests.
func (h *GamesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.deps.Game(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /api/games/{id} requests.
func (h *GamesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.deps.DeleteGame(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear handles DELETE /api/games requests.
func (h *GamesHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearGames(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles GET /api/games/export requests. The response is the
// raw JSON array so it can be saved and re-imported verbatim.
func (h *GamesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.deps.ExportGames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="respiview_games.json"`)
	_, _ = w.Write([]byte(data))
}

type importResponse struct {
	Imported int `json:"imported"`
}

// HandleImport handles POST /api/games/import requests. The body is the
// JSON array produced by export; it replaces the stored history.
func (h *GamesHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxImportBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if int64(len(body)) > h.maxImportBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", ErrBodyTooLarge)
		return
	}

	n, err := h.deps.ImportGames(r.Context(), string(body))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidImport) {
			writeError(w, http.StatusBadRequest, "invalid_import", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}

// HandleSummary handles GET /api/games/stats requests.
func (h *GamesHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.deps.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
