package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	kafkaad "reservation_ingest/internal/adapters/kafka"
	"reservation_ingest/internal/adapters/observability"
	"reservation_ingest/internal/adapters/provider"
	"reservation_ingest/internal/app"
	"reservation_ingest/internal/parser"
	"reservation_ingest/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.RegisterDefault()
	observability.Serve(cfg.MetricsAddr)

	log.Info().
		Strs("brokers", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaTopic).
		Int("backfill", len(cfg.BackfillCodes)).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	repo, closeRepo, err := shared.OpenRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open repository failed")
	}
	defer closeRepo()

	svc := app.NewReservationService(parser.Default(), repo, shared.OpenCache(ctx, cfg))

	if len(cfg.BackfillCodes) > 0 {
		backfill(ctx, cfg, svc)
	}

	if len(cfg.KafkaBrokers) == 0 {
		log.Info().Msg("no KAFKA_BROKERS configured, ingestor done")
		return
	}
	consumer := kafkaad.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic)
	defer consumer.Close()

	err = consumer.Consume(ctx, func(ctx context.Context, raw map[string]any) error {
		_, err := svc.Ingest(ctx, "kafka", raw)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("kafka consumer stopped")
		return
	}
	log.Info().Msg("ingestor stopped")
}

// backfill pulls each configured code from the provider with at most
// cfg.Workers requests in flight.
func backfill(ctx context.Context, cfg shared.Config, svc *app.ReservationService) {
	client, err := provider.New(cfg.ProviderBase, cfg.ProviderKey, cfg.ProviderRPS)
	if err != nil {
		log.Error().Err(err).Msg("backfill skipped: provider client")
		return
	}
	syncer := app.NewSyncService(client, svc)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	for _, code := range cfg.BackfillCodes {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("backfill interrupted")
			break
		}
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			defer sem.Release(1)
			if err := syncer.SyncReservation(ctx, code); err != nil {
				log.Warn().Str("code", code).Err(err).Msg("backfill failed")
				return
			}
			log.Info().Str("code", code).Msg("backfill ok")
		}(code)
	}
	wg.Wait()
	log.Info().Int("codes", len(cfg.BackfillCodes)).Msg("backfill completed")
}
