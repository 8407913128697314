// Package view renders html/template pages with a shared layout and
// partials. Parsed templates are cached outside dev mode; per-request
// state (language, identity, notices) reaches templates through
// resolver callbacks set at bootstrap.
package view

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-diary/internal/auth"
	"github.com/diewo77/go-diary/internal/i18n"
	"github.com/diewo77/go-diary/internal/models"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver   = func(_ *http.Request) string { return i18n.DefaultLang }
	userResolver   = func(_ *http.Request) *models.User { return nil }
	noticeResolver = func(_ *http.Request) (auth.Notice, bool) { return auth.Notice{}, false }
)

// SetLangResolver lets the host app provide the per-request language.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetUserResolver lets the host app provide the authenticated user.
func SetUserResolver(f func(*http.Request) *models.User) {
	if f != nil {
		userResolver = f
	}
}

// SetNoticeResolver lets the host app provide the pending flash notice.
// The resolver must consume the notice: it is rendered exactly once.
func SetNoticeResolver(f func(*http.Request) (auth.Notice, bool)) {
	if f != nil {
		noticeResolver = f
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides the template base directory (useful for tests or
// custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	if r != nil {
		lang = langResolver(r)
	}
	return template.FuncMap{
		"t":     func(code string) string { return i18n.T(lang, code) },
		"lang":  func() string { return lang },
		"year":  func() int { return time.Now().Year() },
		"asset": func(path string) string { return versionedAsset(path) },
		// dict creates a map from key-value pairs for sub-templates.
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// versionedAsset returns /static/<name>?v=<hash> for cache busting.
func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	b, err := os.ReadFile(filepath.Join("static", rel))
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
}

// Render parses and executes a page template wrapped in the layout.
// name is relative to the templates dir (e.g. "articles/list.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus renders with an explicit HTTP status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["Lang"]; !exists {
		data["Lang"] = langResolver(r)
	}
	if _, exists := data["User"]; !exists {
		data["User"] = userResolver(r)
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		data["IsLoggedIn"] = userResolver(r) != nil
	}
	// Handlers re-rendering a failed form pass their own Notice;
	// otherwise consume the session one.
	if _, exists := data["Notice"]; !exists {
		if n, ok := noticeResolver(r); ok {
			data["Notice"] = n
		}
	}

	parsed, err := lookup(name)
	if err != nil {
		return err
	}
	// Clone per request so the func map can carry this request's
	// language without racing concurrent executions.
	t, err := parsed.Clone()
	if err != nil {
		return err
	}
	t = t.Funcs(Funcs(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return t.ExecuteTemplate(w, "layout.html", data)
}

func lookup(name string) (*template.Template, error) {
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			return t, nil
		}
	}

	mainPath := filepath.Join(baseDir, filepath.FromSlash(name))
	if _, err := os.Stat(mainPath); err != nil {
		return nil, err
	}
	layoutPath := filepath.Join(baseDir, "layout.html")
	if _, err := os.Stat(layoutPath); err != nil {
		return nil, errors.New("layout.html not found under " + baseDir)
	}

	files := []string{layoutPath, mainPath}
	if partials, err := filepath.Glob(filepath.Join(baseDir, "partials", "*.html")); err == nil {
		files = append(files, partials...)
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFiles(files...)
	if err != nil {
		return nil, err
	}

	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}
