// Package auth manages login sessions and one-shot flash notices on
// top of an scs session manager. Identity is resolved once per request
// and passed to handlers through the request context; there is no other
// ambient state.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/diewo77/go-diary/internal/models"
)

type ctxKey string

const userCtxKey = ctxKey("user")

// Session keys.
const (
	keyUserID        = "userID"
	keyNoticeLevel   = "noticeLevel"
	keyNoticeMessage = "noticeMessage"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is a one-shot user-facing message carried across a redirect
// and rendered exactly once.
type Notice struct {
	Level   string
	Message string
}

// UserLoader resolves a session's user id to a live account. Returning
// an error or nil drops the session's identity.
type UserLoader func(ctx context.Context, id uint) (*models.User, error)

// Sessions wraps the scs manager with the diary's session vocabulary.
type Sessions struct {
	Manager *scs.SessionManager
}

// NewSessions builds a session manager. A nil store keeps scs's
// default in-memory store (used by tests).
func NewSessions(lifetime time.Duration, store scs.Store) *Sessions {
	m := scs.New()
	m.Lifetime = lifetime
	m.Cookie.Name = "session"
	m.Cookie.HttpOnly = true
	m.Cookie.SameSite = http.SameSiteLaxMode
	if store != nil {
		m.Store = store
	}
	return &Sessions{Manager: m}
}

// Login binds the session to a user id. The token is renewed to
// prevent session fixation.
func (s *Sessions) Login(ctx context.Context, userID uint) error {
	if err := s.Manager.RenewToken(ctx); err != nil {
		return err
	}
	s.Manager.Put(ctx, keyUserID, userID)
	return nil
}

// Logout destroys the session.
func (s *Sessions) Logout(ctx context.Context) error {
	return s.Manager.Destroy(ctx)
}

// UserID returns the session's user id, if any.
func (s *Sessions) UserID(ctx context.Context) (uint, bool) {
	id, ok := s.Manager.Get(ctx, keyUserID).(uint)
	return id, ok && id != 0
}

// Flash stores a one-shot notice. A second Flash before the next render
// overwrites the first, so every outcome carries exactly one notice.
func (s *Sessions) Flash(ctx context.Context, level, message string) {
	s.Manager.Put(ctx, keyNoticeLevel, level)
	s.Manager.Put(ctx, keyNoticeMessage, message)
}

// PopNotice removes and returns the pending notice.
func (s *Sessions) PopNotice(ctx context.Context) (Notice, bool) {
	message := s.Manager.PopString(ctx, keyNoticeMessage)
	level := s.Manager.PopString(ctx, keyNoticeLevel)
	if message == "" {
		return Notice{}, false
	}
	if level == "" {
		level = LevelSuccess
	}
	return Notice{Level: level, Message: message}, true
}

// LoadUser resolves the session's user once per request and stores it
// in the request context. Sessions pointing at missing or inactive
// accounts lose their identity, as if logged out.
func (s *Sessions) LoadUser(load UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := s.UserID(r.Context()); ok {
				user, err := load(r.Context(), id)
				if err != nil || user == nil || !user.IsActive {
					s.Manager.Remove(r.Context(), keyUserID)
				} else {
					r = r.WithContext(WithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userCtxKey).(*models.User)
	return u
}
