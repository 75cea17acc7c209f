package shared

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "reservation_ingest/internal/adapters/redis"
	"reservation_ingest/internal/domain"
	"reservation_ingest/internal/storage/memory"
	mysqlrepo "reservation_ingest/internal/storage/mysql"
)

// OpenRepository connects the configured store. The returned close func is
// safe to call once the process is done with the repository.
func OpenRepository(ctx context.Context, cfg Config) (domain.ReservationRepository, func(), error) {
	switch cfg.Store {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil
	case "mysql", "":
	default:
		return nil, nil, fmt.Errorf("unknown STORE %q", cfg.Store)
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db.Ping: %w", err)
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }, nil
}

// OpenCache returns the Redis cache, or nil when Redis is not configured or
// unreachable. Callers treat a nil cache as caching disabled.
func OpenCache(ctx context.Context, cfg Config) domain.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, caching disabled")
		_ = c.Close()
		return nil
	}
	return c
}
