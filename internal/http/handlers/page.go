package handlers

import (
	"bytes"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"imagination/internal/domain"
	"imagination/internal/render"
	"imagination/internal/studio"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// refreshSeconds is the page reload interval while a request is loading.
const refreshSeconds = 2

var qualityLabels = func() map[domain.Quality]string {
	caser := cases.Title(language.English)
	labels := make(map[domain.Quality]string, len(domain.Qualities))
	for _, q := range domain.Qualities {
		labels[q] = caser.String(q.String())
	}
	return labels
}()

type qualityOption struct {
	Value    domain.Quality
	Label    string
	Selected bool
}

type pageData struct {
	State       domain.ViewState
	Theme       domain.Theme
	Draft       string
	Qualities   []qualityOption
	Suggestions []string
	ImageSrc    template.URL
	Filename    string
	Refresh     int
	Provider    string
}

// Page renders the studio.
func (a *App) Page(w http.ResponseWriter, r *http.Request) {
	state := a.Studio.State()
	data := pageData{
		State:       state,
		Theme:       a.Themes.Resolve(colorSchemeHint(w, r)),
		Draft:       state.Prompt,
		Suggestions: studio.Suggestions(),
	}
	if draft := strings.TrimSpace(r.URL.Query().Get("prompt")); draft != "" && !state.Loading() {
		data.Draft = draft
	}
	for _, q := range domain.Qualities {
		data.Qualities = append(data.Qualities, qualityOption{
			Value:    q,
			Label:    qualityLabels[q],
			Selected: q == state.Quality,
		})
	}
	if state.Loading() {
		data.Refresh = refreshSeconds
	}
	if state.Result != nil {
		data.ImageSrc = template.URL(render.DataURI(state.Result.ImageBase64))
		data.Filename = state.Result.Filename()
		data.Provider = state.Result.Provider
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		a.Logger.Error().Err(err).Msg("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GenerateForm handles the page's prompt form. Rejected submissions leave the
// state as it was and simply return to the page.
func (a *App) GenerateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.redirectHome(w, r)
		return
	}
	quality := a.Studio.State().Quality
	if raw := r.PostForm.Get("quality"); raw != "" {
		q, err := domain.ParseQuality(raw)
		if err != nil {
			a.redirectHome(w, r)
			return
		}
		quality = q
	}
	if err := a.Studio.Submit(r.Context(), r.PostForm.Get("prompt"), quality); err != nil && !expectedRejection(err) {
		a.Logger.Error().Err(err).Msg("submit from form")
	}
	a.redirectHome(w, r)
}

func (a *App) ResetForm(w http.ResponseWriter, r *http.Request) {
	if err := a.Studio.Reset(); err != nil && !expectedRejection(err) {
		a.Logger.Error().Err(err).Msg("reset from form")
	}
	a.redirectHome(w, r)
}

func (a *App) ThemeForm(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Themes.Toggle(r.Context(), colorSchemeHint(w, r)); err != nil {
		a.Logger.Error().Err(err).Msg("toggle theme from form")
	}
	a.redirectHome(w, r)
}

func (a *App) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func expectedRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidPrompt) ||
		errors.Is(err, domain.ErrInvalidQuality) ||
		errors.Is(err, domain.ErrRequestInFlight)
}
