package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/view"
)

type listResponse struct {
	Items     []model.Item `json:"items"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Summary   string       `json:"summary"`
}

type addRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) apiList(w http.ResponseWriter, r *http.Request) {
	items, stats := a.View(a.profile(w, r))
	writeJSON(w, http.StatusOK, listResponse{
		Items:     items,
		Total:     stats.Total,
		Completed: stats.Completed,
		Summary:   view.Summary(stats),
	})
}

func (a *App) apiAdd(w http.ResponseWriter, r *http.Request) {
	profile := a.profile(w, r)
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	item, added := a.OnAdd(profile, req.Text)
	if !added {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "text is empty"})
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *App) apiToggle(w http.ResponseWriter, r *http.Request) {
	if !a.OnToggle(a.profile(w, r), mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "item not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) apiRemove(w http.ResponseWriter, r *http.Request) {
	if !a.OnRemove(a.profile(w, r), mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "item not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
