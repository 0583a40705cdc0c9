package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	gen := a.Studio.Generator()
	a.json(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": gen.Name(),
		"model":    gen.Model(),
	})
}
