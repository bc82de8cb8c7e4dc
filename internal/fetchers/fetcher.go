// Package fetchers implements the two fetch mechanisms the Ticket
// Service chooses between per SPEC_FULL.md §4.4/§4.5: an AI-agent
// subprocess mediated fetch (primary, works without platform
// credentials) and a direct-API fetch (fallback, or the sole mechanism
// for platforms without agent-mediated support).
package fetchers

import (
	"context"

	"github.com/amiad5298/ingot/pkg/models"
)

// Request bundles everything a Fetcher might need; each implementation
// uses only the fields relevant to its mechanism.
type Request struct {
	Platform models.PlatformTag
	ID       string

	// PromptTemplate is the agent-mediated fetch prompt with a
	// {ticket_id} slot. Empty for platforms without agent support.
	PromptTemplate string

	// Credentials is used by direct-API fetchers; agent fetchers never
	// see it (the backend subprocess authenticates on its own terms).
	Credentials *models.Credentials
}

// Fetcher retrieves a single ticket's raw, not-yet-normalized data.
type Fetcher interface {
	// Name identifies the fetcher for logging and error messages
	// ("auggie", "claude", "cursor", "direct").
	Name() string
	Fetch(ctx context.Context, req Request) (map[string]any, error)
}
