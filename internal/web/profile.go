package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultCookieName identifies the browser profile whose list a request
// reads and writes.
const DefaultCookieName = "shoplist_profile"

const profileMaxAge = 365 * 24 * time.Hour

// profile returns the caller's profile id, issuing a fresh one when the
// cookie is absent or not a uuid.
func (a *App) profile(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(a.cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(profileMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
