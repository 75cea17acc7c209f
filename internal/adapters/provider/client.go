// Package provider fetches reservation payloads from the upstream booking
// provider's REST API.
package provider

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reservation_ingest/internal/adapters/observability"
	"reservation_ingest/internal/domain"
)

const (
	service     = "provider"
	maxAttempts = 4
)

var (
	ErrUnauthorized = errors.New("provider: unauthorized")
	ErrForbidden    = errors.New("provider: forbidden")
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

// New returns a client limited to rps requests per second across all
// goroutines. key is optional; when set it is sent as X-API-Key.
func New(base, key string, rps int) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New("provider base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// GetReservation returns the raw payload for code. Unknown codes yield an
// error matching domain.ErrNotFound.
func (c *Client) GetReservation(ctx context.Context, code string) (map[string]any, error) {
	esc := url.PathEscape(code)
	candidates := []endpoint{
		{"reservations", fmt.Sprintf("%s/reservations/%s", c.base, esc)},
		{"reservation", fmt.Sprintf("%s/reservation/%s", c.base, esc)}, // legacy
	}
	var out map[string]any
	if err := c.getFirst(ctx, candidates, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("provider: empty payload for %s", code)
	}
	return out, nil
}

type endpoint struct {
	name string // metrics label
	url  string
}

func (c *Client) getFirst(ctx context.Context, eps []endpoint, out any) error {
	var last error
	for _, ep := range eps {
		err := c.get(ctx, ep, out)
		if errors.Is(err, domain.ErrNotFound) {
			last = err
			continue
		}
		return err
	}
	if last != nil {
		return last
	}
	return errors.New("provider: no endpoint succeeded")
}

// get performs a rate-limited GET, retrying 429 and transient 5xx with
// backoff (or the server's Retry-After), and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, ep endpoint, out any) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.url, nil)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "reservation-ingest/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, ep.name, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, ep.name, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			dec := json.NewDecoder(resp.Body)
			dec.UseNumber()
			err := dec.Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("provider: decode %s: %w", ep.name, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("provider: %w", domain.ErrNotFound)

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("provider: remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("provider: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After in seconds or HTTP-date form; 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}
