// internal/directory/implementation.go
package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"projectmembers/internal/logger"
)

// membersKey is the single cache key the member list lives under.
const membersKey = "users"

// Options tunes the service. The zero value never expires the cache and
// allows five refreshes per minute.
type Options struct {
	CacheTTL         time.Duration
	RefreshPerMinute int
}

// service implements the Service interface.
type service struct {
	fetcher     Fetcher
	cache       *cache.Cache
	ttl         time.Duration
	fetchMu     sync.Mutex
	rateLimiter *rate.Limiter
	tracer      trace.Tracer
	fetches     metric.Int64Counter
	cacheHits   metric.Int64Counter
}

// NewService creates a new directory service instance.
func NewService(fetcher Fetcher, opts Options) Service {
	ttl := cache.NoExpiration
	if opts.CacheTTL > 0 {
		ttl = opts.CacheTTL
	}
	perMinute := opts.RefreshPerMinute
	if perMinute <= 0 {
		perMinute = 5
	}

	meter := otel.Meter("projectmembers/directory")
	fetches, _ := meter.Int64Counter("directory.fetches",
		metric.WithDescription("Upstream member list fetches"))
	cacheHits, _ := meter.Int64Counter("directory.cache_hits",
		metric.WithDescription("Member list reads served from cache"))

	return &service{
		fetcher:     fetcher,
		cache:       cache.New(ttl, time.Minute),
		ttl:         ttl,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		tracer:      otel.Tracer("projectmembers/directory"),
		fetches:     fetches,
		cacheHits:   cacheHits,
	}
}

// ListMembers returns the memoized member list, fetching it on first use.
func (s *service) ListMembers(ctx context.Context) ([]Member, error) {
	ctx, span := s.tracer.Start(ctx, "directory.list_members")
	defer span.End()

	if members, ok := s.cached(); ok {
		s.cacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return members, nil
	}

	// Collapse concurrent misses into a single upstream call.
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	if members, ok := s.cached(); ok {
		s.cacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return members, nil
	}

	span.SetAttributes(attribute.Bool("cache.hit", false))
	s.fetches.Add(ctx, 1)
	members, err := s.fetcher.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Warn("directory: fetch members: %v", err)
		return nil, err
	}

	s.cache.Set(membersKey, members, s.ttl)
	logger.Debug("directory: cached %d members", len(members))
	return clone(members), nil
}

// Query filters and paginates the member list.
func (s *service) Query(ctx context.Context, c Criteria) (*Page, error) {
	members, err := s.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	return NewPage(members, c), nil
}

// Refresh drops the cached list and fetches it again.
func (s *service) Refresh(ctx context.Context) ([]Member, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	s.Invalidate()
	members, err := s.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return members, nil
}

// Invalidate drops the cached list. The next read refetches.
func (s *service) Invalidate() {
	s.cache.Delete(membersKey)
}

func (s *service) cached() ([]Member, bool) {
	v, ok := s.cache.Get(membersKey)
	if !ok {
		return nil, false
	}
	return clone(v.([]Member)), true
}

// clone hands callers their own slice so the cached list is never mutated.
func clone(members []Member) []Member {
	out := make([]Member, len(members))
	copy(out, members)
	return out
}
