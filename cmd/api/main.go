package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "reservation_ingest/internal/adapters/http_server"
	"reservation_ingest/internal/adapters/observability"
	"reservation_ingest/internal/app"
	"reservation_ingest/internal/parser"
	"reservation_ingest/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	repo, closeRepo, err := shared.OpenRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open repository failed")
	}
	defer closeRepo()
	cache := shared.OpenCache(ctx, cfg)

	formats := parser.Default()
	var names []string
	for _, d := range formats.Descriptors() {
		names = append(names, d.Name)
	}
	log.Info().Strs("formats", names).Msg("payload formats registered")

	svc := app.NewReservationService(formats, repo, cache)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	srv := server.New(cfg.HTTPTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Ingest: svc, Q: q})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Bool("cache", cache != nil).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
