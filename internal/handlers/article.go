package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/diewo77/go-diary/internal/auth"
	"github.com/diewo77/go-diary/internal/gate"
	"github.com/diewo77/go-diary/internal/images"
	"github.com/diewo77/go-diary/internal/models"
	"github.com/diewo77/go-diary/internal/pagination"
	"github.com/diewo77/go-diary/internal/policy"
	"github.com/diewo77/go-diary/internal/repo"
	"github.com/diewo77/go-diary/internal/validation"
	"github.com/diewo77/go-diary/internal/view"
)

// Listing page size.
const articlesPerPage = 5

const maxUploadBytes = 32 << 20

type ArticleHandler struct {
	repos    *repo.Repositories
	gate     *gate.Gate[*models.User]
	sessions *auth.Sessions
	store    *images.Store
}

func NewArticleHandler(repos *repo.Repositories, g *gate.Gate[*models.User], sessions *auth.Sessions, store *images.Store) *ArticleHandler {
	return &ArticleHandler{repos: repos, gate: g, sessions: sessions, store: store}
}

// List shows the newest-first article listing.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, nil)
}

// ListByTag shows the listing filtered to one tag.
func (h *ArticleHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.repos.Tags.BySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.list(w, r, tag)
}

func (h *ArticleHandler) list(w http.ResponseWriter, r *http.Request, tag *models.Tag) {
	number := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		number = n
	}

	opt := repo.ListOptions{Offset: (number - 1) * articlesPerPage, Limit: articlesPerPage}
	if tag != nil {
		opt.TagSlug = tag.Slug
	}
	if number < 1 {
		http.NotFound(w, r)
		return
	}
	articles, total, err := h.repos.Articles.List(r.Context(), opt)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	page, err := pagination.New(number, articlesPerPage, total)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	tags, err := h.repos.Tags.All(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Articles": articles,
		"Tags":     tags,
		"Page":     page,
		"Elided":   page.Elided(),
	}
	if tag != nil {
		data["ActiveTag"] = tag
	}
	view.Render(w, r, "articles/list.html", data)
}

// Detail shows one article with its comments and the comment form.
func (h *ArticleHandler) Detail(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "articles/detail.html", map[string]any{
		"Article": article,
	})
}

// PostComment handles the comment form on the detail page.
func (h *ArticleHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	detailURL := fmt.Sprintf("/%d", article.ID)

	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionCreate, policy.ResourceComment, nil); err != nil {
		flash(h.sessions, r, auth.LevelError, "comment_create_denied")
		seeOther(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	body := r.PostFormValue("body")
	violations := validation.Violations{}
	validation.Required("body", body, violations)
	if !violations.Empty() {
		flash(h.sessions, r, auth.LevelError, "comment_body_required")
		seeOther(w, r, detailURL)
		return
	}

	comment := models.Comment{UserID: user.ID, ArticleID: article.ID, Body: body}
	if err := h.repos.Comments.Create(r.Context(), &comment); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	flash(h.sessions, r, auth.LevelSuccess, "comment_create_success")
	seeOther(w, r, detailURL)
}

// CreateForm shows the empty entry form.
func (h *ArticleHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionCreate, policy.ResourceArticle, nil); err != nil {
		flash(h.sessions, r, auth.LevelError, "article_create_denied")
		seeOther(w, r, "/")
		return
	}
	h.renderForm(w, r, "articles/create.html", formState{}, nil, http.StatusOK)
}

// Create validates and stores a new entry. Any violation rejects the
// whole submission and re-renders the form with the submitted values.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionCreate, policy.ResourceArticle, nil); err != nil {
		flash(h.sessions, r, auth.LevelError, "article_create_denied")
		seeOther(w, r, "/")
		return
	}

	state, upload, violations, ok := h.parseEntryForm(w, r)
	if !ok {
		return
	}
	if !violations.Empty() {
		h.renderForm(w, r, "articles/create.html", state, &formFailure{
			Notice:     inlineNotice(r, auth.LevelError, "article_create_failure"),
			Violations: violations,
		}, http.StatusUnprocessableEntity)
		return
	}

	article := models.Article{UserID: user.ID, Title: state.Title, Body: state.Body}
	if upload != nil {
		photo, thumb, err := h.store.SavePhoto(upload.Filename, upload.Data, upload.Image)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		article.Photo = photo
		article.Thumbnail = thumb
	}
	tags, err := h.repos.Tags.ByIDs(r.Context(), state.TagIDs)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.repos.Articles.Create(r.Context(), &article, tags); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	flash(h.sessions, r, auth.LevelSuccess, "article_create_success")
	seeOther(w, r, "/")
}

// UpdateForm shows the entry form pre-filled with the stored values.
func (h *ArticleHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionUpdate, policy.ResourceArticle, article); err != nil {
		flash(h.sessions, r, auth.LevelError, "article_update_denied")
		seeOther(w, r, "/")
		return
	}
	state := formState{Title: article.Title, Body: article.Body, ArticleID: article.ID, Photo: article.Photo}
	for _, t := range article.Tags {
		state.TagIDs = append(state.TagIDs, t.ID)
	}
	h.renderForm(w, r, "articles/update.html", state, nil, http.StatusOK)
}

// Update validates the edited entry and fully replaces its tag set.
// The author never changes.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionUpdate, policy.ResourceArticle, article); err != nil {
		flash(h.sessions, r, auth.LevelError, "article_update_denied")
		seeOther(w, r, "/")
		return
	}

	state, upload, violations, ok := h.parseEntryForm(w, r)
	if !ok {
		return
	}
	state.ArticleID = article.ID
	state.Photo = article.Photo
	if !violations.Empty() {
		h.renderForm(w, r, "articles/update.html", state, &formFailure{
			Notice:     inlineNotice(r, auth.LevelError, "article_update_failure"),
			Violations: violations,
		}, http.StatusUnprocessableEntity)
		return
	}

	article.Title = state.Title
	article.Body = state.Body
	if upload != nil {
		photo, thumb, err := h.store.SavePhoto(upload.Filename, upload.Data, upload.Image)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		article.Photo = photo
		article.Thumbnail = thumb
	}
	tags, err := h.repos.Tags.ByIDs(r.Context(), state.TagIDs)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.repos.Articles.Update(r.Context(), article, tags); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	flash(h.sessions, r, auth.LevelSuccess, "article_update_success")
	seeOther(w, r, "/")
}

// DeleteForm shows the confirmation page.
func (h *ArticleHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionDelete, policy.ResourceArticle, article); err != nil {
		flash(h.sessions, r, auth.LevelError, "article_delete_denied")
		seeOther(w, r, "/")
		return
	}
	view.Render(w, r, "articles/delete.html", map[string]any{
		"Article": article,
	})
}

// Delete removes the entry and its comments.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), user, gate.ActionDelete, policy.ResourceArticle, article); err != nil {
		flash(h.sessions, r, auth.LevelError, "article_delete_denied")
		seeOther(w, r, "/")
		return
	}
	if err := h.repos.Articles.Delete(r.Context(), article); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	flash(h.sessions, r, auth.LevelSuccess, "article_delete_success")
	seeOther(w, r, "/")
}

func (h *ArticleHandler) loadArticle(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	article, err := h.repos.Articles.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return article, true
}

// formState carries submitted (or stored) values back into the form.
type formState struct {
	Title     string
	Body      string
	TagIDs    []uint
	ArticleID uint
	Photo     string
}

type formFailure struct {
	Notice     auth.Notice
	Violations validation.Violations
}

type photoUpload struct {
	Filename string
	Data     []byte
	Image    image.Image
}

// parseEntryForm reads the multipart (or urlencoded) entry form. A
// present-but-undecodable photo becomes a field violation so the whole
// submission is rejected, never partially saved.
func (h *ArticleHandler) parseEntryForm(w http.ResponseWriter, r *http.Request) (formState, *photoUpload, validation.Violations, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return formState{}, nil, nil, false
	}

	state := formState{
		Title:  r.PostFormValue("title"),
		Body:   r.PostFormValue("body"),
		TagIDs: parseUintList(r.PostForm["tags"]),
	}
	violations := validation.Violations{}
	validation.Required("title", state.Title, violations)
	validation.MaxLen("title", state.Title, 100, violations)
	validation.Required("body", state.Body, violations)

	var upload *photoUpload
	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// no photo submitted
	case err != nil:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return formState{}, nil, nil, false
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return formState{}, nil, nil, false
		}
		if len(data) > 0 {
			img, err := images.Decode(bytes.NewReader(data))
			if err != nil {
				violations["photo"] = "not_image"
			} else {
				upload = &photoUpload{Filename: header.Filename, Data: data, Image: img}
			}
		}
	}
	return state, upload, violations, true
}

func (h *ArticleHandler) renderForm(w http.ResponseWriter, r *http.Request, template string, state formState, failure *formFailure, status int) {
	tags, err := h.repos.Tags.All(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	selected := make(map[uint]bool, len(state.TagIDs))
	for _, id := range state.TagIDs {
		selected[id] = true
	}
	data := map[string]any{
		"Values":       state,
		"Tags":         tags,
		"SelectedTags": selected,
	}
	if failure != nil {
		data["Notice"] = failure.Notice
		data["Violations"] = failure.Violations
	}
	view.RenderStatus(w, r, status, template, data)
}
