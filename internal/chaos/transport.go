// internal/chaos/transport.go

// Package chaos injects latency and failures into outbound HTTP calls so the
// directory's loading and error states can be exercised against a live upstream.
package chaos

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrInjectedFailure = errors.New("chaos: injected request failure")

// Config describes the faults to inject. The zero value injects nothing.
type Config struct {
	// FailureRate is the probability, in [0, 1], that a request fails
	// before reaching the network.
	FailureRate float64
	// Latency is added before every request; Jitter adds up to that much more.
	Latency time.Duration
	Jitter  time.Duration
}

func (c Config) Enabled() bool {
	return c.FailureRate > 0 || c.Latency > 0 || c.Jitter > 0
}

// Transport is an http.RoundTripper that applies Config to every request
// before delegating to Base.
type Transport struct {
	Base   http.RoundTripper
	config Config

	mu  sync.Mutex
	rng *rand.Rand

	delayed atomic.Uint64
	failed  atomic.Uint64
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, cfg Config) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		Base:   base,
		config: cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())

	if d := t.delay(); d > 0 {
		t.delayed.Add(1)
		span.AddEvent("chaos.latency", trace.WithAttributes(attribute.Int64("latency.ms", d.Milliseconds())))
		if err := sleep(req.Context(), d); err != nil {
			return nil, err
		}
	}

	if t.shouldFail() {
		t.failed.Add(1)
		span.AddEvent("chaos.failure")
		return nil, ErrInjectedFailure
	}

	return t.Base.RoundTrip(req)
}

// Stats returns how many requests were delayed and failed so far.
func (t *Transport) Stats() (delayed, failed uint64) {
	return t.delayed.Load(), t.failed.Load()
}

func (t *Transport) delay() time.Duration {
	d := t.config.Latency
	if t.config.Jitter > 0 {
		t.mu.Lock()
		d += time.Duration(t.rng.Int63n(int64(t.config.Jitter)))
		t.mu.Unlock()
	}
	return d
}

func (t *Transport) shouldFail() bool {
	switch {
	case t.config.FailureRate <= 0:
		return false
	case t.config.FailureRate >= 1:
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rng.Float64() < t.config.FailureRate
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
