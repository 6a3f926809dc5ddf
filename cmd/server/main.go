package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chord-trainer/internal/catalog"
	"chord-trainer/internal/platform/config"
	"chord-trainer/internal/platform/logger"
	"chord-trainer/internal/platform/metrics"
	"chord-trainer/internal/playback"
	"chord-trainer/internal/sound"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	assetBaseURL := config.GetEnv("ASSET_BASE_URL", "https://assets.chord-trainer.local/clips")
	fetchTimeout := config.GetEnvDuration("FETCH_TIMEOUT", playback.DefaultFetchTimeout)
	maxFetches := config.GetEnvInt("MAX_CONCURRENT_FETCHES", playback.DefaultMaxConcurrentFetches)
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")

	log := logger.New(logLevel, logFormat)

	met := metrics.New()

	players := sound.NewFactory(log)
	if err := players.Initialize(); err != nil {
		log.Error("audio init failed", "error", err)
		os.Exit(1)
	}
	defer players.Terminate()

	fetcher := playback.NewHTTPFetcher(assetBaseURL, fetchTimeout, log, met)
	orc := playback.NewOrchestrator(catalog.New(), fetcher, players, log, met, maxFetches)
	defer orc.Stop()
	h := playback.NewHandler(orc, log)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetPlaying(orc.Status().Snapshot().IsPlaying) }).ServeHTTP(w, r)
	})
	r.Group(h.Routes)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"asset_base_url", assetBaseURL,
		"fetch_timeout", fetchTimeout.String(),
		"max_concurrent_fetches", maxFetches,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
