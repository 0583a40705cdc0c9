package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"imagination/internal/http/handlers"
	httpapi "imagination/internal/http/httpapi"
	"imagination/internal/infra"
	"imagination/internal/preferences"
	"imagination/internal/providers/txt2img"
	"imagination/internal/storage"
	"imagination/internal/studio"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	gen, err := txt2img.FromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image provider")
	}

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open data dir")
	}
	themes, err := preferences.LoadThemes(ctx, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load preferences")
	}

	ctrl, err := studio.NewController(studio.Options{
		Generator:      gen,
		Logger:         &logger,
		DefaultQuality: cfg.DefaultQuality,
		Timeout:        cfg.GenerationTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build studio")
	}

	app := handlers.NewApp(ctrl, themes, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router, logger)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("provider", gen.Name()).
			Str("model", gen.Model()).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Let an accepted generation settle so its outcome is logged.
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if state, err := ctrl.Wait(waitCtx); err != nil {
		logger.Warn().Str("status", string(state.Status)).Msg("exiting with generation in flight")
	}
	logger.Info().Msg("server stopped")
}
