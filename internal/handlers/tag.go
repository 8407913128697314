package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-diary/internal/auth"
	"github.com/diewo77/go-diary/internal/gate"
	"github.com/diewo77/go-diary/internal/models"
	"github.com/diewo77/go-diary/internal/policy"
	"github.com/diewo77/go-diary/internal/repo"
	"github.com/diewo77/go-diary/internal/validation"
	"github.com/diewo77/go-diary/internal/view"
)

type TagHandler struct {
	repos    *repo.Repositories
	gate     *gate.Gate[*models.User]
	sessions *auth.Sessions
}

func NewTagHandler(repos *repo.Repositories, g *gate.Gate[*models.User], sessions *auth.Sessions) *TagHandler {
	return &TagHandler{repos: repos, gate: g, sessions: sessions}
}

// List shows all tags. Public.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.repos.Tags.All(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "tags/list.html", map[string]any{
		"Tags": tags,
	})
}

// CreateForm shows the empty tag form. Staff only.
func (h *TagHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionCreate, nil, "tag_create_denied") {
		return
	}
	h.renderForm(w, r, "tags/create.html", tagFormState{}, nil, http.StatusOK)
}

// Create validates and stores a new tag.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, gate.ActionCreate, nil, "tag_create_denied") {
		return
	}
	state, violations, ok := h.parseTagForm(w, r)
	if !ok {
		return
	}
	if violations.Empty() {
		tag := models.Tag{Name: state.Name, Slug: state.Slug}
		switch err := h.repos.Tags.Create(r.Context(), &tag); {
		case err == nil:
			flash(h.sessions, r, auth.LevelSuccess, "tag_create_success")
			seeOther(w, r, "/tag/config/list")
			return
		case errors.Is(err, repo.ErrDuplicate):
			violations["name"] = "already_exists"
			violations["slug"] = "already_exists"
		default:
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	h.renderForm(w, r, "tags/create.html", state, violations, http.StatusUnprocessableEntity)
}

// UpdateForm shows the tag form pre-filled.
func (h *TagHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, gate.ActionUpdate, tag, "tag_update_denied") {
		return
	}
	state := tagFormState{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
	h.renderForm(w, r, "tags/update.html", state, nil, http.StatusOK)
}

// Update validates and stores the edited tag.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, gate.ActionUpdate, tag, "tag_update_denied") {
		return
	}
	state, violations, ok := h.parseTagForm(w, r)
	if !ok {
		return
	}
	state.ID = tag.ID
	if violations.Empty() {
		tag.Name = state.Name
		tag.Slug = state.Slug
		switch err := h.repos.Tags.Update(r.Context(), tag); {
		case err == nil:
			flash(h.sessions, r, auth.LevelSuccess, "tag_update_success")
			seeOther(w, r, "/tag/config/list")
			return
		case errors.Is(err, repo.ErrDuplicate):
			violations["name"] = "already_exists"
			violations["slug"] = "already_exists"
		default:
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	h.renderForm(w, r, "tags/update.html", state, violations, http.StatusUnprocessableEntity)
}

// DeleteForm shows the confirmation page.
func (h *TagHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, gate.ActionDelete, tag, "tag_delete_denied") {
		return
	}
	view.Render(w, r, "tags/delete.html", map[string]any{
		"Tag": tag,
	})
}

// Delete removes the tag; tagged articles only lose the association.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.loadTag(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, gate.ActionDelete, tag, "tag_delete_denied") {
		return
	}
	if err := h.repos.Tags.Delete(r.Context(), tag); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	flash(h.sessions, r, auth.LevelSuccess, "tag_delete_success")
	seeOther(w, r, "/tag/config/list")
}

func (h *TagHandler) authorize(w http.ResponseWriter, r *http.Request, action gate.Action, tag *models.Tag, deniedCode string) bool {
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, action, policy.ResourceTag, tag); err != nil {
		flash(h.sessions, r, auth.LevelError, deniedCode)
		seeOther(w, r, "/")
		return false
	}
	return true
}

func (h *TagHandler) loadTag(w http.ResponseWriter, r *http.Request) (*models.Tag, bool) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	tag, err := h.repos.Tags.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return tag, true
}

type tagFormState struct {
	ID   uint
	Name string
	Slug string
}

func (h *TagHandler) parseTagForm(w http.ResponseWriter, r *http.Request) (tagFormState, validation.Violations, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return tagFormState{}, nil, false
	}
	state := tagFormState{
		Name: r.PostFormValue("name"),
		Slug: r.PostFormValue("slug"),
	}
	violations := validation.Violations{}
	validation.Required("name", state.Name, violations)
	validation.MaxLen("name", state.Name, 100, violations)
	validation.Required("slug", state.Slug, violations)
	validation.Slug("slug", state.Slug, violations)
	return state, violations, true
}

func (h *TagHandler) renderForm(w http.ResponseWriter, r *http.Request, template string, state tagFormState, violations validation.Violations, status int) {
	data := map[string]any{
		"Values": state,
	}
	if len(violations) > 0 {
		data["Violations"] = violations
	}
	view.RenderStatus(w, r, status, template, data)
}
