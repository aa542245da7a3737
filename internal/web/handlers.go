package web

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/view"
)

func (a *App) handlePage(w http.ResponseWriter, r *http.Request) {
	profile := a.profile(w, r)
	items, stats := a.View(profile)

	var buf bytes.Buffer
	if err := view.Render(&buf, view.NewPage(items, stats)); err != nil {
		a.log.Error("render failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (a *App) handleAdd(w http.ResponseWriter, r *http.Request) {
	profile := a.profile(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	a.OnAdd(profile, r.PostFormValue("text"))
	backToList(w, r)
}

func (a *App) handleToggle(w http.ResponseWriter, r *http.Request) {
	profile := a.profile(w, r)
	a.OnToggle(profile, mux.Vars(r)["id"])
	backToList(w, r)
}

func (a *App) handleRemove(w http.ResponseWriter, r *http.Request) {
	profile := a.profile(w, r)
	a.OnRemove(profile, mux.Vars(r)["id"])
	backToList(w, r)
}

// backToList answers every form command the same way, whether or not it
// changed anything.
func backToList(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
