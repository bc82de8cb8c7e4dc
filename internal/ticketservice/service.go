// Package ticketservice implements the Ticket Service: the single
// orchestrator every caller (CLI, introspection server) goes through
// to turn a free-form ticket reference into a Normalized Ticket
// (SPEC_FULL.md §4.7).
package ticketservice

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amiad5298/ingot/internal/auth"
	"github.com/amiad5298/ingot/internal/cache"
	"github.com/amiad5298/ingot/internal/fetchers"
	"github.com/amiad5298/ingot/internal/providers"
	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
	"github.com/rs/zerolog/log"
)

// defaultTTL is the cache lifetime New falls back to when it is given
// a non-positive ttl.
const defaultTTL = time.Hour

// Options customizes a single GetTicket call.
type Options struct {
	// SkipCache bypasses both the read and the write for this call.
	SkipCache bool
	// TTLOverride replaces the service's configured default TTL for
	// this call's cache write.
	TTLOverride *time.Duration
}

// Service is the acquirable orchestrator: one Registry, one primary
// Fetcher, an optional fallback Fetcher, and an optional Cache.
type Service struct {
	registry    *providers.Registry
	primary     fetchers.Fetcher
	fallback    fetchers.Fetcher
	cache       cache.Cache
	authManager auth.AuthManager
	ttl         time.Duration

	group singleflight.Group

	closeOnce sync.Once
	closeErr  error
}

// New composes a Service. primary is required; fallback and c may be
// nil (no fallback mechanism / no caching, respectively). ttl is the
// default cache lifetime when a call does not supply TTLOverride.
// authManager supplies Credentials to any DirectFetcher among
// primary/fallback; it may be nil if neither is one.
func New(registry *providers.Registry, primary fetchers.Fetcher, fallback fetchers.Fetcher, c cache.Cache, authManager auth.AuthManager, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{registry: registry, primary: primary, fallback: fallback, cache: c, authManager: authManager, ttl: ttl}
}

// GetTicket runs the 8-step acquisition sequence from SPEC_FULL.md
// §4.7: provider lookup, id parsing, cache read, fetcher selection,
// primary fetch with fallback, normalization, cache write, return.
func (s *Service) GetTicket(ctx context.Context, input string, opts Options) (*models.Ticket, error) {
	provider, _, err := s.registry.GetProviderForInput(input)
	if err != nil {
		return nil, err
	}

	id, err := provider.ParseInput(input)
	if err != nil {
		return nil, err
	}

	key := models.CacheKey{Platform: provider.Platform(), TicketID: id}

	if !opts.SkipCache && s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			log.Debug().Str("platform", string(provider.Platform())).Str("ticket_id", id).Msg("cache hit")
			return cached, nil
		}
	}

	ticket, err := s.fetchAndNormalizeDeduped(ctx, provider, key)
	if err != nil {
		return nil, err
	}

	if !opts.SkipCache && s.cache != nil {
		ttl := s.ttl
		if opts.TTLOverride != nil {
			ttl = *opts.TTLOverride
		}
		if err := s.cache.Set(ctx, key, ticket, ttl); err != nil {
			log.Warn().Err(err).Str("ticket_id", id).Msg("cache write failed; returning ticket uncached")
		}
	}

	return ticket, nil
}

// fetchAndNormalizeDeduped wraps the fetch+normalize path in a
// singleflight group keyed by the cache key, so concurrent GetTicket
// calls for the same ticket collapse onto a single backend fetch —
// extending the sequential "fetcher called at most once" contract to
// concurrent callers, per SPEC_FULL.md §4.7's [ADDED] note.
func (s *Service) fetchAndNormalizeDeduped(ctx context.Context, provider providers.Provider, key models.CacheKey) (*models.Ticket, error) {
	v, err, _ := s.group.Do(key.String(), func() (any, error) {
		return s.fetchAndNormalize(ctx, provider, key.TicketID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Ticket), nil
}

func (s *Service) fetchAndNormalize(ctx context.Context, provider providers.Provider, id string) (*models.Ticket, error) {
	platform := provider.Platform()

	primarySupports := s.supports(s.primary, platform, provider)
	fallbackSupports := s.fallback != nil && s.supports(s.fallback, platform, provider)
	if !primarySupports && !fallbackSupports {
		return nil, ticketerrors.NewPlatformNotSupported(string(platform), "any configured fetcher")
	}

	var raw map[string]any
	var err error
	if primarySupports {
		raw, err = s.primary.Fetch(ctx, s.requestFor(provider, id))
		if err != nil && fallbackSupports && ticketerrors.IsFallbackEligible(err) {
			log.Warn().Err(err).Str("platform", string(platform)).Str("ticket_id", id).
				Str("primary", s.primary.Name()).Str("fallback", s.fallback.Name()).
				Msg("primary fetch failed with a fallback-eligible error; trying fallback")
			raw, err = s.fallback.Fetch(ctx, s.requestFor(provider, id))
		}
	} else {
		raw, err = s.fallback.Fetch(ctx, s.requestFor(provider, id))
	}
	if err != nil {
		return nil, err
	}

	return provider.Normalize(raw, id)
}

func (s *Service) requestFor(provider providers.Provider, id string) fetchers.Request {
	req := fetchers.Request{
		Platform:       provider.Platform(),
		ID:             id,
		PromptTemplate: provider.PromptTemplate(),
	}
	if s.authManager != nil {
		creds := s.authManager.Credentials(provider.Platform())
		req.Credentials = &creds
	}
	return req
}

// supports reports whether f can serve platform, mirroring spec.md
// §4.7 step 4's "if the primary supports the platform" check. An
// AgentFetcher supports a platform iff the provider exposes a
// non-empty prompt template; a DirectFetcher (or any other mechanism)
// is assumed to cover every platform the registry itself knows about,
// since DirectFetcher.Fetch already raises PlatformNotSupported for
// anything it has no handler for.
func (s *Service) supports(f fetchers.Fetcher, platform models.PlatformTag, provider providers.Provider) bool {
	if _, ok := f.(*fetchers.AgentFetcher); ok {
		return provider.PromptTemplate() != ""
	}
	return true
}

// Close releases both fetchers if they implement io.Closer. Safe to
// call multiple times; only the first call does any work.
func (s *Service) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = closeIfCloser(s.fallback)
		if err := closeIfCloser(s.primary); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}

// Registry exposes the Service's Provider Registry for the
// introspection server's /v1/platforms route.
func (s *Service) Registry() *providers.Registry { return s.registry }

// Cache exposes the Service's cache tier for the introspection
// server's /v1/cache/stats route. May be nil if the service was built
// without one.
func (s *Service) Cache() cache.Cache { return s.cache }

func closeIfCloser(f fetchers.Fetcher) error {
	if c, ok := f.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
