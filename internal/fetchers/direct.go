package fetchers

import (
	"context"

	"github.com/amiad5298/ingot/internal/handlers"
	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// DirectFetcher retrieves a ticket straight from the platform's own
// API via a registered Handler, bypassing any AI agent subprocess.
// It is the fallback mechanism when agent-mediated fetch fails
// (SPEC_FULL.md §4.5), or the sole mechanism for platforms without
// agent support.
type DirectFetcher struct {
	handlers map[models.PlatformTag]handlers.Handler
}

// NewDirectFetcher builds a DirectFetcher with the full set of
// built-in REST/GraphQL handlers registered.
func NewDirectFetcher() *DirectFetcher {
	return &DirectFetcher{
		handlers: map[models.PlatformTag]handlers.Handler{
			models.PlatformJira:        handlers.NewJiraHandler(),
			models.PlatformGitHub:      handlers.NewGitHubHandler(),
			models.PlatformAzureDevOps: handlers.NewAzureDevOpsHandler(),
			models.PlatformTrello:      handlers.NewTrelloHandler(),
			models.PlatformLinear:      handlers.NewLinearHandler(),
			models.PlatformMonday:      handlers.NewMondayHandler(),
		},
	}
}

// RegisterHandler installs (or overrides) the handler for platform —
// used by tests to inject a stub.
func (f *DirectFetcher) RegisterHandler(platform models.PlatformTag, h handlers.Handler) {
	f.handlers[platform] = h
}

func (f *DirectFetcher) Name() string { return "direct" }

func (f *DirectFetcher) Fetch(ctx context.Context, req Request) (map[string]any, error) {
	h, ok := f.handlers[req.Platform]
	if !ok {
		return nil, ticketerrors.NewPlatformNotSupported(string(req.Platform), "direct")
	}
	if req.Credentials == nil || !req.Credentials.IsConfigured {
		msg := "credentials not configured"
		if req.Credentials != nil && req.Credentials.ErrorMessage != "" {
			msg = req.Credentials.ErrorMessage
		}
		return nil, ticketerrors.NewCredentialValidation(string(req.Platform), msg)
	}
	return h.Fetch(ctx, req.Credentials, req.ID)
}
