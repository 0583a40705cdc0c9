package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"imagination/internal/domain"
)

const openAPIPath = "/v1/openapi.json"

//go:embed templates/openapi.json
var openAPISpec []byte

//go:embed templates/docs.html
var docsHTML string

var docsTmpl = template.Must(template.New("docs").Parse(docsHTML))

// redocThemes follows the studio theme so the docs match the page.
var redocThemes = map[domain.Theme]string{
	domain.ThemeLight: `{"colors":{"primary":{"main":"#6d4aff"}}}`,
	domain.ThemeDark:  `{"colors":{"primary":{"main":"#9d85ff"},"text":{"primary":"#ececf1"}},"sidebar":{"backgroundColor":"#1c1c24","textColor":"#ececf1"},"rightPanel":{"backgroundColor":"#111116"}}`,
}

// OpenAPIJSON serves the embedded API description.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs renders the Redoc viewer in the caller's theme.
func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	theme := a.Themes.Resolve(colorSchemeHint(w, r))

	var buf bytes.Buffer
	err := docsTmpl.Execute(&buf, struct {
		Theme      domain.Theme
		SpecURL    string
		RedocTheme string
	}{Theme: theme, SpecURL: openAPIPath, RedocTheme: redocThemes[theme]})
	if err != nil {
		a.Logger.Error().Err(err).Msg("render docs")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
