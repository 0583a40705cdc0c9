package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"imagination/internal/domain"
	"imagination/internal/render"
	"imagination/internal/studio"
)

type generationReq struct {
	Prompt  string `json:"prompt"`
	Quality string `json:"quality"`
}

type qualityReq struct {
	Quality string `json:"quality"`
}

// State returns the current view state.
func (a *App) State(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Studio.State())
}

// Generate submits a prompt. With ?wait=true the response is delayed until the
// request settles.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generationReq
	if !a.decode(w, r, &req) {
		return
	}

	quality := a.Studio.State().Quality
	if req.Quality != "" {
		q, err := domain.ParseQuality(req.Quality)
		if err != nil {
			a.error(w, http.StatusBadRequest, "invalid_quality", "quality must be one of low, medium, high")
			return
		}
		quality = q
	}

	if err := a.Studio.Submit(r.Context(), req.Prompt, quality); err != nil {
		a.submitError(w, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		state, err := a.Studio.Wait(r.Context())
		if err != nil {
			a.json(w, http.StatusAccepted, state)
			return
		}
		a.json(w, http.StatusOK, state)
		return
	}
	a.json(w, http.StatusAccepted, a.Studio.State())
}

func (a *App) submitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPrompt):
		a.error(w, http.StatusBadRequest, "invalid_prompt", "prompt must not be empty")
	case errors.Is(err, domain.ErrInvalidQuality):
		a.error(w, http.StatusBadRequest, "invalid_quality", "quality must be one of low, medium, high")
	case errors.Is(err, domain.ErrRequestInFlight):
		a.error(w, http.StatusConflict, "request_in_flight", "a generation is already running")
	default:
		a.Logger.Error().Err(err).Msg("unexpected studio error")
		a.error(w, http.StatusInternalServerError, "internal", "unexpected error")
	}
}

// Reset implements "create new".
func (a *App) Reset(w http.ResponseWriter, r *http.Request) {
	if err := a.Studio.Reset(); err != nil {
		a.submitError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State())
}

func (a *App) SelectQuality(w http.ResponseWriter, r *http.Request) {
	var req qualityReq
	if !a.decode(w, r, &req) {
		return
	}
	q, err := domain.ParseQuality(req.Quality)
	if err != nil || req.Quality == "" {
		a.error(w, http.StatusBadRequest, "invalid_quality", "quality must be one of low, medium, high")
		return
	}
	if err := a.Studio.SelectQuality(q); err != nil {
		a.submitError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State())
}

// Image serves the current result as a PNG download.
func (a *App) Image(w http.ResponseWriter, r *http.Request) {
	state := a.Studio.State()
	if state.Status != domain.StatusResult || state.Result == nil {
		a.error(w, http.StatusNotFound, "not_found", domain.ErrNoResult.Error())
		return
	}
	data, err := render.DecodePNG(state.Result.ImageBase64)
	if err != nil {
		a.Logger.Error().Err(err).Msg("decode stored result")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load image")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": state.Result.Filename(),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) Suggestions(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string][]string{"suggestions": studio.Suggestions()})
}
