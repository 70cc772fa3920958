// Package web serves the blog page and the form actions that drive a session's
// controller.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/config"
	"github.com/debemdeboas/minimal-blog/internal/model"
	"github.com/debemdeboas/minimal-blog/internal/render"
	"github.com/debemdeboas/minimal-blog/internal/routes"
	"github.com/debemdeboas/minimal-blog/internal/session"
	"github.com/debemdeboas/minimal-blog/internal/theme"
)

var webLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	webLogger = l
}

// logFor returns the request's logger, falling back to the package one.
func logFor(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &webLogger
}

const (
	labelCreate = "Create Blog"
	labelUpdate = "Update Blog"
)

type Handler struct {
	sessions *session.Manager
	content  config.ContentConfig

	tmpl *template.Template
}

// NewHandler parses the page templates from fsys once.
func NewHandler(sessions *session.Manager, fsys fs.FS, content config.ContentConfig) (*Handler, error) {
	tmpl, err := template.ParseFS(fsys,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateIndex,
	)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse page templates")
	}

	return &Handler{
		sessions: sessions,
		content:  content,
		tmpl:     tmpl,
	}, nil
}

// Register mounts the page, its form actions and the post partial on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+routes.RootPath+"{$}", h.ServeIndex)
	mux.HandleFunc("POST "+routes.Posts, h.ServeSubmit)
	mux.HandleFunc("POST "+routes.PostsCancel, h.ServeCancel)
	mux.HandleFunc("POST "+routes.PostEdit, h.ServeEdit)
	mux.HandleFunc("POST "+routes.PostDelete, h.ServeDelete)
	mux.HandleFunc("GET "+routes.PartialsPost, h.ServePostPartial)
}

type postView struct {
	ID      model.PostID
	Title   string
	Preview string
	Date    string
	Author  string
	Editing bool
}

type toast struct {
	Message string
	Failed  bool
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Open(w, r)
	if err != nil {
		logFor(r).Error().Err(err).Msg("Failed to open session")
		http.Error(w, config.HTTPErrSession, http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// back stores pending notifications in the session and sends the browser to the page.
func (h *Handler) back(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Flush(); err != nil {
		logFor(r).Error().Err(err).Msg("Failed to save session")
	}
	http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
}

func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	ctrl := sess.Controller()

	// The page always shows what the backend has now; a failure keeps the last list
	_ = ctrl.Refresh(r.Context())

	kinds, err := sess.Notifications()
	if err != nil {
		logFor(r).Error().Err(err).Msg("Failed to save session")
	}

	state := ctrl.State()
	editID, editing := state.EditTarget.PostID()

	posts := make([]postView, len(state.Posts))
	for i, p := range state.Posts {
		posts[i] = postView{
			ID:      p.ID,
			Title:   p.Title,
			Preview: render.Preview(p.Content, h.content.PreviewLength),
			Date:    render.FormatDate(p.CreatedAt, h.content.DateFormat),
			Author:  p.Author,
			Editing: editing && p.ID == editID,
		}
	}

	toasts := make([]toast, len(kinds))
	for i, k := range kinds {
		toasts[i] = toast{Message: k.Message(), Failed: k.Failed()}
	}

	submitLabel := labelCreate
	if editing {
		submitLabel = labelUpdate
	}

	data := struct {
		*model.PageData
		Posts       []postView
		Draft       model.Draft
		Editing     bool
		EditID      model.PostID
		SubmitLabel string
		Toasts      []toast
	}{
		PageData:    model.NewPageData(r),
		Posts:       posts,
		Draft:       state.Draft,
		Editing:     editing,
		EditID:      editID,
		SubmitLabel: submitLabel,
		Toasts:      toasts,
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, config.TemplateLayout, data); err != nil {
		logFor(r).Error().Err(err).Msg("Failed to render index")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func draftFromForm(r *http.Request) model.Draft {
	return model.Draft{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
		Author:  r.PostFormValue("author"),
	}
}

// formTarget is the edit target the form was rendered for.
func formTarget(r *http.Request) model.EditTarget {
	if id := r.PostFormValue("edit_id"); id != "" {
		return model.EditTargetFor(model.PostID(id))
	}
	return model.NoEditTarget()
}

func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	ctrl := sess.Controller()
	draft := draftFromForm(r)

	if !draft.Complete() {
		// The form marks every field required; keep what was typed and show it again
		ctrl.UpdateDraft(draft)
		h.back(w, r, sess)
		return
	}

	// A page rendered before an Edit or Cancel elsewhere must not hit another post
	_ = ctrl.SubmitFor(r.Context(), formTarget(r), draft)
	h.back(w, r, sess)
}

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	ctrl := sess.Controller()
	id := model.PostID(r.PathValue("id"))

	post, found := ctrl.Post(id)
	if !found {
		logFor(r).Warn().Str("post", string(id)).Msg("Edit requested for a post not in the list")
		h.back(w, r, sess)
		return
	}

	ctrl.BeginEdit(post)
	h.back(w, r, sess)
}

func (h *Handler) ServeCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	sess.Controller().CancelEdit()
	h.back(w, r, sess)
}

func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	id := model.PostID(r.PathValue("id"))

	_ = sess.Controller().Remove(r.Context(), id)
	h.back(w, r, sess)
}

// ServePostPartial renders one post's full content as an HTML fragment.
func (h *Handler) ServePostPartial(w http.ResponseWriter, r *http.Request) {
	id := model.PostID(r.URL.Query().Get("id"))
	if id == "" {
		http.NotFound(w, r)
		return
	}

	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	// Save before writing so a first visit gets its cookie and keeps one controller
	if err := sess.Flush(); err != nil {
		logFor(r).Error().Err(err).Msg("Failed to save session")
	}

	post, found := sess.Controller().Post(id)
	if !found {
		http.Error(w, config.HTTPErrPostNotFound, http.StatusNotFound)
		return
	}

	htmlContent := render.MarkdownCached([]byte(post.Content), h.content.MarkdownRenderer, theme.GetSyntaxThemeFromRequest(r))

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "<title>%s</title>\n%s", template.HTMLEscapeString(post.Title), htmlContent)
}
