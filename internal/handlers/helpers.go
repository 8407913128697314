// Package handlers contains the HTTP handlers. Each handler struct
// carries its dependencies explicitly; identity comes from the request
// context, never from a global.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-diary/internal/auth"
	"github.com/diewo77/go-diary/internal/i18n"
	"github.com/diewo77/go-diary/internal/middleware"
)

// flash stores a translated one-shot notice for the page after the
// redirect.
func flash(s *auth.Sessions, r *http.Request, level, code string) {
	s.Flash(r.Context(), level, i18n.T(middleware.LangFrom(r), code))
}

// inlineNotice builds a notice for re-rendered forms, which skip the
// session round-trip.
func inlineNotice(r *http.Request, level, code string) auth.Notice {
	return auth.Notice{Level: level, Message: i18n.T(middleware.LangFrom(r), code)}
}

// parseID reads the {id} path value. Non-numeric ids behave like
// missing records.
func parseID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseUintList converts form values like tag id checkboxes, skipping
// anything non-numeric.
func parseUintList(values []string) []uint {
	out := make([]uint, 0, len(values))
	for _, v := range values {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n != 0 {
			out = append(out, uint(n))
		}
	}
	return out
}

func seeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
