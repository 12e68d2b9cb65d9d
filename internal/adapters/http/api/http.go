// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/internal/domain/scoring"
	"github.com/respiview/respiview/internal/domain/viewstate"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// View operations reconcile and transition URL state.
	ResolveView(ctx context.Context, rawQuery string) (viewstate.Resolution, error)
	ChangeView(ctx context.Context, rawQuery, oldView, newView string) viewstate.ViewChange

	// Game operations manage the stored history.
	ScoreGame(ctx context.Context, rec model.GameRecord) (scoring.GameScore, error)
	SaveGame(ctx context.Context, rec model.GameRecord) error
	Games(ctx context.Context) ([]model.GameRecord, error)
	Game(ctx context.Context, id string) (model.GameRecord, error)
	DeleteGame(ctx context.Context, id string) error
	ClearGames(ctx context.Context) error
	ExportGames(ctx context.Context) (string, error)
	ImportGames(ctx context.Context, data string) (int, error)

	// Locations lists the selectable locations of a dataset.
	Locations(ctx context.Context, dataset string) ([]model.MetadataLocation, error)

	// Stats computes the cross-game summary.
	Stats(ctx context.Context) (scoring.Summary, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	viewStateHandler *ViewStateHandler
	gamesHandler     *GamesHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxImportBytes caps the accepted size of an import payload.
func WithMaxImportBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.gamesHandler.maxImportBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		viewStateHandler: NewViewStateHandler(deps),
		gamesHandler:     NewGamesHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/viewstate/resolve", MetricsMiddleware(s.viewStateHandler.HandleResolve, "viewstate_resolve")).Methods(http.MethodGet)
	api.HandleFunc("/viewstate/view-change", MetricsMiddleware(s.viewStateHandler.HandleChange, "viewstate_change")).Methods(http.MethodPost)

	api.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleList, "games")).Methods(http.MethodGet)
	api.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleSave, "games")).Methods(http.MethodPut)
	api.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleClear, "games")).Methods(http.MethodDelete)
	api.HandleFunc("/games/stats", MetricsMiddleware(s.gamesHandler.HandleSummary, "games_stats")).Methods(http.MethodGet)
	api.HandleFunc("/games/export", MetricsMiddleware(s.gamesHandler.HandleExport, "games_export")).Methods(http.MethodGet)
	api.HandleFunc("/games/import", MetricsMiddleware(s.gamesHandler.HandleImport, "games_import")).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", MetricsMiddleware(s.gamesHandler.HandleGet, "games_id")).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", MetricsMiddleware(s.gamesHandler.HandleDelete, "games_id")).Methods(http.MethodDelete)

	api.HandleFunc("/score", MetricsMiddleware(s.gamesHandler.HandleScore, "score")).Methods(http.MethodPost)

	api.HandleFunc("/locations/{dataset}", MetricsMiddleware(s.viewStateHandler.HandleLocations, "locations")).Methods(http.MethodGet)
}

// stateResponse mirrors the reconciled in-memory state.
type stateResponse struct {
	SelectedTarget string   `json:"selected_target,omitempty"`
	SelectedModels []string `json:"selected_models"`
	SelectedDates  []string `json:"selected_dates"`
	ActiveDate     string   `json:"active_date,omitempty"`
	ChartScale     string   `json:"chart_scale"`
	Intervals      []string `json:"intervals"`
	ShowLegend     bool     `json:"show_legend"`
}

func newStateResponse(s viewstate.State) stateResponse {
	intervals := make([]string, 0, len(s.Intervals))
	for iv, on := range s.Intervals {
		if on {
			intervals = append(intervals, string(iv))
		}
	}
	sort.Strings(intervals)
	return stateResponse{
		SelectedTarget: s.SelectedTarget,
		SelectedModels: s.SelectedModels,
		SelectedDates:  s.SelectedDates,
		ActiveDate:     s.ActiveDate,
		ChartScale:     string(s.ChartScale),
		Intervals:      intervals,
		ShowLegend:     s.ShowLegend,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
