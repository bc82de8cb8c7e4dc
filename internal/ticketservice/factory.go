package ticketservice

import (
	"github.com/amiad5298/ingot/internal/auth"
	"github.com/amiad5298/ingot/internal/cache"
	"github.com/amiad5298/ingot/internal/config"
	"github.com/amiad5298/ingot/internal/detector"
	"github.com/amiad5298/ingot/internal/fetchers"
	"github.com/amiad5298/ingot/internal/providers"
	"github.com/amiad5298/ingot/internal/ticketerrors"
)

// agentFetcherFor builds the AgentFetcher matching cfg.AgentBackend,
// or nil if cfg names no backend (or an unrecognized one).
func agentFetcherFor(cfg *config.Config) *fetchers.AgentFetcher {
	switch cfg.AgentBackend {
	case "auggie":
		return fetchers.NewAuggieFetcher(cfg.AgentTimeout)
	case "claude":
		return fetchers.NewClaudeFetcher(cfg.AgentTimeout)
	case "cursor":
		return fetchers.NewCursorFetcher(cfg.AgentTimeout)
	default:
		return nil
	}
}

// NewFromConfig composes a Service from cfg, mirroring SPEC_FULL.md
// §4.7's construction helper: a mediated-capable backend (when
// configured) becomes primary with Direct-API as fallback; otherwise
// Direct-API is primary and there is no fallback. Configuring neither
// a backend nor any credentials leaves Direct-API with nothing it can
// ever authenticate against, which is a configuration error rather
// than a runtime one.
func NewFromConfig(cfg *config.Config) (*Service, error) {
	reg := providers.DefaultRegistry(detector.New(), providers.ProviderDeps{
		DefaultProjectKey: cfg.Providers.DefaultProjectKey,
		DefaultOwner:      cfg.Providers.DefaultOwner,
		DefaultRepo:       cfg.Providers.DefaultRepo,
		EnterpriseHost:    cfg.Providers.EnterpriseHost,
		BaseURL:           cfg.Providers.BaseURL,
	})

	authManager := auth.NewStaticAuthManager(cfg.Credentials)
	direct := fetchers.NewDirectFetcher()
	agent := agentFetcherFor(cfg)

	if agent == nil && !anyCredentialsConfigured(cfg) {
		return nil, ticketerrors.NewCacheConfiguration(
			"no agent backend and no platform credentials configured; the service would have no way to fetch any ticket")
	}

	var primary, fallback fetchers.Fetcher
	if agent != nil {
		primary, fallback = agent, direct
	} else {
		primary = direct
	}

	c, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}

	return New(reg, primary, fallback, c, authManager, cfg.CacheTTL), nil
}

func anyCredentialsConfigured(cfg *config.Config) bool {
	for _, values := range cfg.Credentials {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

func buildCache(cfg *config.Config) (cache.Cache, error) {
	if cfg.CacheDir != "" {
		return cache.NewFileCache(cfg.CacheDir, cfg.CacheMaxSize)
	}
	return cache.NewMemoryCache(cfg.CacheMaxSize)
}
