package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"imagination/internal/http/handlers"
	"imagination/internal/infra"
	"imagination/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	limit := middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)

	// JSON API
	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Get("/state", app.State)
		r.With(limit).Post("/generations", app.Generate)
		r.Post("/reset", app.Reset)
		r.Put("/quality", app.SelectQuality)
		r.Get("/image.png", app.Image)
		r.Get("/suggestions", app.Suggestions)

		r.Route("/theme", func(r chi.Router) {
			r.Get("/", app.GetTheme)
			r.Put("/", app.PutTheme)
			r.Post("/toggle", app.ToggleTheme)
		})
	})

	// Page
	r.Get("/", app.Page)
	r.With(limit).Post("/generate", app.GenerateForm)
	r.Post("/reset", app.ResetForm)
	r.Post("/theme", app.ThemeForm)

	return r
}
