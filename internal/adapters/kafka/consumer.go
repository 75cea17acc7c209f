// Package kafkaad consumes reservation payloads published on a Kafka topic.
package kafkaad

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"reservation_ingest/internal/parser"
)

// Handler processes one decoded payload. A returned error is logged and the
// message is still committed; rejected payloads are not redelivered.
type Handler func(ctx context.Context, raw map[string]any) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

// Consume blocks until ctx is done. Offsets are committed after the handler
// returns so a crash mid-message replays it.
func (c *Consumer) Consume(ctx context.Context, handle Handler) error {
	backoff := 200 * time.Millisecond
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("kafka fetch error")
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, 5*time.Second)
			continue
		}
		backoff = 200 * time.Millisecond

		l := log.With().
			Str("topic", m.Topic).
			Int("partition", m.Partition).
			Int64("offset", m.Offset).
			Logger()

		raw, err := DecodePayload(m.Value)
		if err != nil {
			l.Warn().Err(err).Msg("kafka message skipped")
		} else if err := handle(ctx, raw); err != nil {
			l.Warn().Err(err).Msg("kafka handler error")
		} else {
			l.Debug().Msg("kafka message consumed")
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka commit: %w", err)
		}
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }

// DecodePayload accepts either a bare payload or an event envelope carrying
// the payload under "data".
func DecodePayload(b []byte) (map[string]any, error) {
	raw, err := parser.DecodeJSONBytes(b)
	if err != nil {
		return nil, err
	}
	if data, ok := raw["data"].(map[string]any); ok && !hasPayloadKeys(raw) {
		return data, nil
	}
	return raw, nil
}

// hasPayloadKeys reports whether raw already looks like a reservation
// payload rather than an envelope.
func hasPayloadKeys(raw map[string]any) bool {
	_, flat := raw["reservation_code"]
	_, nested := raw["reservation"]
	return flat || nested
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
