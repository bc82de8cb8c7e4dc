package providers

import (
	"sync"

	"github.com/amiad5298/ingot/internal/detector"
	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
	"github.com/rs/zerolog/log"
)

// Registry maps a platform tag to a lazily-instantiated, singleton
// Provider. Grounded on the teacher's internal/resolver.Resolver
// (validate-then-build against a registered backing store) but
// reworked per SPEC_FULL.md §4.2/§9: factories replace runtime
// constructor introspection, and the registry itself is a value
// constructed at service-composition time rather than a package-level
// global.
type Registry struct {
	mu        sync.Mutex
	detector  *detector.Detector
	factories map[models.PlatformTag]ProviderFactory
	instances map[models.PlatformTag]Provider
	deps      ProviderDeps
}

// NewRegistry builds an empty registry using d for input classification.
func NewRegistry(d *detector.Detector) *Registry {
	return &Registry{
		detector:  d,
		factories: make(map[models.PlatformTag]ProviderFactory),
		instances: make(map[models.PlatformTag]Provider),
	}
}

// Register installs factory for platform. Registering a platform that
// already has a factory clears its cached instance (if any) and logs
// a warning — Go cannot compare function values for identity, so
// unlike the source's class-based registry we cannot special-case
// "the exact same factory" as a true no-op; every re-registration is
// treated as a deliberate replacement, per SPEC_FULL.md §4.2/§9.
func (r *Registry) Register(platform models.PlatformTag, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[platform]; ok {
		log.Warn().Str("platform", platform.String()).Msg("replacing provider factory for already-registered platform")
		delete(r.instances, platform)
	}
	r.factories[platform] = factory
}

// SetConfig replaces the dependency bag injected into providers built
// from now on. It does not mutate already-created singletons — call
// ResetInstances or Clear first if you need existing providers rebuilt
// with the new config.
func (r *Registry) SetConfig(deps ProviderDeps) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps = deps
}

// SetUserInteraction installs the user-interaction capability into the
// dependency bag used for providers built from now on.
func (r *Registry) SetUserInteraction(ui UserInteraction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps.UserInteraction = ui
}

// ResetInstances clears cached singletons without unregistering
// factories; the next GetProvider call rebuilds from the current deps.
func (r *Registry) ResetInstances() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[models.PlatformTag]Provider)
}

// Clear unregisters everything.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[models.PlatformTag]ProviderFactory)
	r.instances = make(map[models.PlatformTag]Provider)
}

// GetProvider returns the singleton Provider for platform, creating it
// on first call. If the factory panics or is absent, no half-built
// instance is cached.
func (r *Registry) GetProvider(platform models.PlatformTag) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getProviderLocked(platform)
}

func (r *Registry) getProviderLocked(platform models.PlatformTag) (Provider, error) {
	if p, ok := r.instances[platform]; ok {
		return p, nil
	}
	factory, ok := r.factories[platform]
	if !ok {
		return nil, ticketerrors.NewUnsupportedPlatform(platform.String(), r.registeredNamesLocked())
	}
	p := factory(r.deps)
	r.instances[platform] = p
	return p, nil
}

// GetProviderForInput composes Detect + GetProvider; every error the
// detector can raise is normalized to UnsupportedPlatform/UnsupportedInput
// so callers see one stable error surface.
func (r *Registry) GetProviderForInput(input string) (Provider, string, error) {
	platform, _, err := r.detector.Detect(input)
	if err != nil {
		return nil, "", err
	}

	r.mu.Lock()
	p, err := r.getProviderLocked(platform)
	r.mu.Unlock()
	if err != nil {
		return nil, "", err
	}
	return p, input, nil
}

func (r *Registry) registeredNamesLocked() []string {
	platforms := make([]models.PlatformTag, 0, len(r.factories))
	for p := range r.factories {
		platforms = append(platforms, p)
	}
	return models.SortedPlatformNames(platforms)
}

// RegisteredPlatforms returns the sorted uppercase names of every
// registered platform, used by the introspection server.
func (r *Registry) RegisteredPlatforms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registeredNamesLocked()
}
