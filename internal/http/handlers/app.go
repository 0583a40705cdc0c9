// Package handlers implements the studio's HTTP surface: the JSON API under
// /v1 and the server-rendered page at /.
package handlers

import (
	"encoding/json"
	"net/http"

	"imagination/internal/infra"
	"imagination/internal/preferences"
	"imagination/internal/studio"
)

const maxBodyBytes = 64 << 10

type App struct {
	Studio *studio.Controller
	Themes *preferences.Themes
	Logger infra.Logger
}

func NewApp(ctrl *studio.Controller, themes *preferences.Themes, logger infra.Logger) *App {
	return &App{
		Studio: ctrl,
		Themes: themes,
		Logger: logger.With().Str("component", "http").Logger(),
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}
