package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("INGEST_WORKERS", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	c := Load()
	assert.Equal(t, "mysql", c.Store)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.Equal(t, 900*time.Second, c.CacheTTL)
	assert.Empty(t, c.KafkaBrokers)
	assert.Equal(t, 8, c.Workers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", "MEMORY")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("BACKFILL_CODES", "YYY1,YYY2")
	t.Setenv("PROVIDER_API_KEY", "k")
	t.Setenv("INGEST_WORKERS", "0")
	t.Setenv("CACHE_TTL_SECONDS", "30")

	c := Load()
	assert.Equal(t, "memory", c.Store)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.KafkaBrokers)
	assert.Equal(t, []string{"YYY1", "YYY2"}, c.BackfillCodes)
	assert.Equal(t, 1, c.Workers)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
}
