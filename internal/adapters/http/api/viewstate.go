// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/respiview/respiview/internal/domain/registry"
	"github.com/respiview/respiview/internal/domain/viewstate"
)

// ViewStateHandler handles view reconciliation and transition requests.
type ViewStateHandler struct {
	deps Dependencies
}

// NewViewStateHandler creates a new view state handler.
func NewViewStateHandler(deps Dependencies) *ViewStateHandler {
	return &ViewStateHandler{deps: deps}
}

// resolveResponse mirrors the outcome of one reconciliation run.
type resolveResponse struct {
	State     stateResponse `json:"state"`
	Query     string        `json:"query"`
	WroteBack bool          `json:"wrote_back"`
	Corrected bool          `json:"corrected"`
}

// HandleResolve handles GET /api/viewstate/resolve requests. The request's
// own query string is the dashboard URL state to reconcile; the canonical
// (shareable) query string comes back in the response.
func (h *ViewStateHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ResolveView(r.Context(), r.URL.RawQuery)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		State:     newStateResponse(res.State),
		Query:     res.Params.Encode(),
		WroteBack: res.WroteBack,
		Corrected: res.Corrected,
	})
}

// changeRequest mirrors the body of POST /api/viewstate/view-change. From is
// optional; when absent the current view is derived from the query.
type changeRequest struct {
	Query string `json:"query"`
	From  string `json:"from,omitempty"`
	To    string `json:"to"`
}

func (c changeRequest) validate() error {
	if strings.TrimSpace(c.To) == "" {
		return ErrMissingView
	}
	return nil
}

// changeResponse mirrors the outcome of one view transition.
type changeResponse struct {
	State   stateResponse `json:"state"`
	Query   string        `json:"query"`
	History string        `json:"history"`
	Changed bool          `json:"changed"`
}

// HandleChange handles POST /api/viewstate/view-change requests.
func (h *ViewStateHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	vc := h.deps.ChangeView(r.Context(), req.Query, req.From, req.To)

	history := "replace"
	if vc.History == viewstate.HistoryPush {
		history = "push"
	}
	writeJSON(w, http.StatusOK, changeResponse{
		State:   newStateResponse(vc.State),
		Query:   vc.Params.Encode(),
		History: history,
		Changed: vc.Changed,
	})
}

// HandleLocations handles GET /api/locations/{dataset} requests.
func (h *ViewStateHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	dataset := mux.Vars(r)["dataset"]
	locs, err := h.deps.Locations(r.Context(), dataset)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownDataset) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusBadGateway, "upstream_error", err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}
