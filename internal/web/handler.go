// Package web serves the intake form as server-rendered HTML.
//
// The page holds no server-side session: every POST carries the whole form,
// which is decoded back into an Application through the form reducer, has
// the requested action applied and is rendered again.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"certification-intake/internal/common/logger"
	"certification-intake/internal/form"
	"certification-intake/internal/i18n"
	"certification-intake/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// LanguageCookie remembers the chosen UI language.
const LanguageCookie = "language"

// maxFormBytes caps a posted form.
const maxFormBytes = 1 << 20

// Config selects the languages of the page and of the submitted payload.
type Config struct {
	DefaultLanguage i18n.Language
	PayloadLanguage i18n.Language
}

// Handler renders the form and handles its actions.
type Handler struct {
	catalog     *i18n.Catalog
	submitter   *form.Submitter
	defaultLang i18n.Language
	payloadLang i18n.Language
	logger      logger.Logger
	tmpl        *template.Template
}

// NewHandler parses the embedded template. Unsupported languages in cfg
// fall back to bg.
func NewHandler(catalog *i18n.Catalog, submitter *form.Submitter, cfg Config, log logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	defaultLang, ok := i18n.ParseLanguage(string(cfg.DefaultLanguage))
	if !ok {
		defaultLang = i18n.BG
	}
	payloadLang, ok := i18n.ParseLanguage(string(cfg.PayloadLanguage))
	if !ok {
		payloadLang = i18n.BG
	}

	tmpl, err := template.New("form.html").Funcs(template.FuncMap{
		"has": func(set []string, v string) bool { return contains(set, v) },
	}).ParseFS(templateFS, "templates/form.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		catalog:     catalog,
		submitter:   submitter,
		defaultLang: defaultLang,
		payloadLang: payloadLang,
		logger:      log,
		tmpl:        tmpl,
	}, nil
}

// Register mounts the form routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Show)
	mux.HandleFunc("POST /form", h.Post)
	mux.HandleFunc("POST /language", h.SetLanguage)
}

// Show renders an empty form. ?submitted=<id> adds the success notice.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	lang := h.language(r)
	if l, ok := i18n.ParseLanguage(r.URL.Query().Get("lang")); ok {
		setLanguageCookie(w, l)
	}

	p := newPage(h.catalog.For(lang), form.New())
	p.SubmittedID = r.URL.Query().Get("submitted")
	h.render(w, http.StatusOK, p)
}

// Post applies the posted action to the posted form.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	lang := h.language(r)
	if l, ok := i18n.ParseLanguage(r.PostForm.Get(fieldLang)); ok {
		lang = l
	}
	app := decodeApplication(r.PostForm)

	verb, arg := parseAction(r.PostForm.Get(fieldAction))
	switch verb {
	case "submit":
		h.submit(w, r, app, lang)
		return
	case "add-site":
		app = form.Apply(app, form.AddSite{})
	case "remove-site":
		if i, err := strconv.Atoi(arg); err == nil {
			app = form.Apply(app, form.RemoveSite{Index: i})
		}
	case "language":
		if l, ok := i18n.ParseLanguage(arg); ok {
			lang = l
			setLanguageCookie(w, l)
		}
	}

	h.render(w, http.StatusOK, newPage(h.catalog.For(lang), app))
}

// SetLanguage stores the language cookie and returns to the form.
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang, ok := i18n.ParseLanguage(r.PostForm.Get(fieldLang))
	if !ok {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}
	setLanguageCookie(w, lang)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, app models.Application, lang i18n.Language) {
	var sub form.Submission
	state, err := sub.Run(r.Context(), h.submitter, app, h.payloadLang)
	if state == form.Success {
		q := url.Values{"lang": {string(lang)}, "submitted": {sub.ID()}}
		http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
		return
	}

	tr := h.catalog.For(lang)
	p := newPage(tr, app)
	p.Alert = alertFor(tr, err)

	status := http.StatusBadGateway
	var vErr *form.ValidationError
	if errors.As(err, &vErr) {
		status = http.StatusUnprocessableEntity
	}
	h.render(w, status, p)
}

// alertFor turns a failed submission into the user-facing error box.
func alertFor(tr i18n.Translator, err error) *alert {
	var vErr *form.ValidationError
	if errors.As(err, &vErr) {
		return &alert{Title: tr.T("modal.error.title"), Lines: []string{tr.T(vErr.Key)}}
	}

	// A relay that cannot reach its destination answers 503; the user sees
	// the same connectivity message as for an unreachable relay.
	var sErr *form.SubmitError
	if errors.As(err, &sErr) && (sErr.Kind == form.KindNetwork || sErr.Status == http.StatusServiceUnavailable) {
		return &alert{
			Title: tr.T("modal.error.title"),
			Lines: []string{tr.T("modal.error.network"), tr.T("modal.error.checkConnection")},
		}
	}

	lines := []string{tr.T("modal.error.submission")}
	if sErr != nil && sErr.Message != "" {
		lines = append(lines, sErr.Message)
	}
	lines = append(lines, tr.T("modal.error.retry"))
	return &alert{Title: tr.T("modal.error.title"), Lines: lines}
}

// language resolves the UI language: ?lang=, then the cookie, then the
// configured default.
func (h *Handler) language(r *http.Request) i18n.Language {
	if l, ok := i18n.ParseLanguage(r.URL.Query().Get("lang")); ok {
		return l
	}
	if c, err := r.Cookie(LanguageCookie); err == nil {
		if l, ok := i18n.ParseLanguage(c.Value); ok {
			return l
		}
	}
	return h.defaultLang
}

func (h *Handler) render(w http.ResponseWriter, status int, p page) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, p); err != nil {
		h.logger.Error("Failed to render form", map[string]interface{}{
			"error": err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func setLanguageCookie(w http.ResponseWriter, lang i18n.Language) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookie,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
