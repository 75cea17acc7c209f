package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string

	Store     string // mysql|memory
	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	ProviderBase  string
	ProviderKey   string
	ProviderRPS   int
	BackfillCodes []string
	Workers       int
}

// Load reads configuration from the environment. Values from a local .env
// file are loaded first without overriding variables already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env load failed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		HTTPTimeout: time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsAddr: env("METRICS_ADDR", ""),

		Store:     strings.ToLower(env("STORE", "mysql")),
		MySQLDSN:  env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reservations?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		KafkaBrokers: list(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   env("KAFKA_TOPIC", "reservations.events"),
		KafkaGroupID: env("KAFKA_GROUP_ID", "reservation-ingestor"),

		ProviderBase:  env("PROVIDER_BASE_URL", ""),
		ProviderKey:   env("PROVIDER_API_KEY", ""),
		ProviderRPS:   atoi("PROVIDER_RPS", 5),
		BackfillCodes: list(os.Getenv("BACKFILL_CODES")),
		Workers:       atoi("INGEST_WORKERS", 8),
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if len(c.BackfillCodes) > 0 && c.ProviderKey == "" {
		log.Warn().Msg("PROVIDER_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
