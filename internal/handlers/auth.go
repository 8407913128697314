package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/go-diary/internal/auth"
	"github.com/diewo77/go-diary/internal/repo"
	"github.com/diewo77/go-diary/internal/view"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	repos    *repo.Repositories
	sessions *auth.Sessions
}

func NewAuthHandler(repos *repo.Repositories, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{repos: repos, sessions: sessions}
}

// LoginForm shows the login page. Already-authenticated users go home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != nil {
		seeOther(w, r, "/")
		return
	}
	view.Render(w, r, "login.html", map[string]any{"Email": ""})
}

// Login authenticates by email and password. Invalid credentials and
// inactive accounts get the same re-rendered form so the response does
// not leak which emails exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := h.repos.Users.ByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	authenticated := err == nil && user.IsActive &&
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
	if !authenticated {
		view.RenderStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Notice": inlineNotice(r, auth.LevelError, "login_failed"),
			"Email":  email,
		})
		return
	}

	if err := h.sessions.Login(r.Context(), user.ID); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.repos.Users.TouchLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/")
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	seeOther(w, r, "/")
}
