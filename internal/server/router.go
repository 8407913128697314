// Package server wires handlers, middlewares and the view resolvers
// into the root http.Handler.
package server

import (
	"context"
	"net/http"

	"github.com/diewo77/go-diary/internal/auth"
	"github.com/diewo77/go-diary/internal/config"
	"github.com/diewo77/go-diary/internal/handlers"
	"github.com/diewo77/go-diary/internal/images"
	"github.com/diewo77/go-diary/internal/middleware"
	"github.com/diewo77/go-diary/internal/models"
	"github.com/diewo77/go-diary/internal/policy"
	"github.com/diewo77/go-diary/internal/repo"
	"github.com/diewo77/go-diary/internal/view"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(db *gorm.DB, cfg config.Config, sessions *auth.Sessions) http.Handler {
	repos := repo.New(db)
	g := policy.NewGate()
	store := images.NewStore(cfg.Media.Root)

	articleHandler := handlers.NewArticleHandler(repos, g, sessions, store)
	tagHandler := handlers.NewTagHandler(repos, g, sessions)
	authHandler := handlers.NewAuthHandler(repos, sessions)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", articleHandler.List)
	mux.HandleFunc("GET /tag/{slug}", articleHandler.ListByTag)

	mux.HandleFunc("GET /create", articleHandler.CreateForm)
	mux.HandleFunc("POST /create", articleHandler.Create)
	mux.HandleFunc("GET /update/{id}", articleHandler.UpdateForm)
	mux.HandleFunc("POST /update/{id}", articleHandler.Update)
	mux.HandleFunc("GET /delete/{id}", articleHandler.DeleteForm)
	mux.HandleFunc("POST /delete/{id}", articleHandler.Delete)

	mux.HandleFunc("GET /tag/config/list", tagHandler.List)
	mux.HandleFunc("GET /tag/config/create", tagHandler.CreateForm)
	mux.HandleFunc("POST /tag/config/create", tagHandler.Create)
	mux.HandleFunc("GET /tag/config/update/{id}", tagHandler.UpdateForm)
	mux.HandleFunc("POST /tag/config/update/{id}", tagHandler.Update)
	mux.HandleFunc("GET /tag/config/delete/{id}", tagHandler.DeleteForm)
	mux.HandleFunc("POST /tag/config/delete/{id}", tagHandler.Delete)

	mux.HandleFunc("GET /login", authHandler.LoginForm)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", authHandler.Logout)

	// Detail last among the root-level patterns; {id} also matches
	// /create etc., but literal segments win under the 1.22 mux rules.
	mux.HandleFunc("GET /{id}", articleHandler.Detail)
	mux.HandleFunc("POST /{id}", articleHandler.PostComment)

	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Media.Root))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := db.Exec("SELECT 1").Error; err != nil {
			http.Error(w, "degraded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	// Template resolvers: per-request language, identity and the
	// pending flash notice (consumed at render time).
	view.SetLangResolver(middleware.LangFrom)
	view.SetUserResolver(func(r *http.Request) *models.User {
		return auth.UserFromContext(r.Context())
	})
	view.SetNoticeResolver(func(r *http.Request) (auth.Notice, bool) {
		return sessions.PopNotice(r.Context())
	})

	loadUser := sessions.LoadUser(func(ctx context.Context, id uint) (*models.User, error) {
		return repos.Users.ByID(ctx, id)
	})

	var handler http.Handler = mux
	handler = middleware.Recover(handler)
	handler = middleware.Lang(handler)
	handler = loadUser(handler)
	handler = sessions.Manager.LoadAndSave(handler)
	handler = middleware.Logging(handler)
	return handler
}
