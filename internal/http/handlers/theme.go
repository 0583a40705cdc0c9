package handlers

import (
	"errors"
	"net/http"

	"imagination/internal/domain"
	"imagination/internal/preferences"
)

type themeReq struct {
	Theme string `json:"theme"`
}

type themeResp struct {
	Theme  domain.Theme `json:"theme"`
	Stored bool         `json:"stored"`
}

func colorSchemeHint(w http.ResponseWriter, r *http.Request) string {
	w.Header().Set("Accept-CH", preferences.ColorSchemeHint)
	w.Header().Add("Vary", preferences.ColorSchemeHint)
	return r.Header.Get(preferences.ColorSchemeHint)
}

func (a *App) themeState(hint string) themeResp {
	_, stored := a.Themes.Stored()
	return themeResp{Theme: a.Themes.Resolve(hint), Stored: stored}
}

func (a *App) GetTheme(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.themeState(colorSchemeHint(w, r)))
}

func (a *App) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeReq
	if !a.decode(w, r, &req) {
		return
	}
	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_theme", "theme must be light or dark")
		return
	}
	if err := a.Themes.Set(r.Context(), theme); err != nil {
		a.themeError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.themeState(colorSchemeHint(w, r)))
}

func (a *App) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	hint := colorSchemeHint(w, r)
	if _, err := a.Themes.Toggle(r.Context(), hint); err != nil {
		a.themeError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.themeState(hint))
}

func (a *App) themeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidTheme) {
		a.error(w, http.StatusBadRequest, "invalid_theme", "theme must be light or dark")
		return
	}
	a.Logger.Error().Err(err).Msg("persist theme")
	a.error(w, http.StatusInternalServerError, "internal", "failed to save theme")
}
