// Package providers implements the per-platform Issue-Tracker
// Provider and the Provider Registry (SPEC_FULL.md §4.2/§4.3).
// Providers are pure with respect to the network: they recognize,
// parse, and normalize — never fetch.
package providers

import (
	"github.com/amiad5298/ingot/pkg/models"
)

// Provider is the contract every platform implements.
type Provider interface {
	// Platform is the tag this provider owns.
	Platform() models.PlatformTag
	// Name is a human-readable provider name for logging/errors.
	Name() string
	// CanHandle reports whether input is a ticket reference this
	// provider recognizes (URL or bare id), given its configured
	// defaults.
	CanHandle(input string) bool
	// ParseInput parses input into the provider's canonical id form.
	// Idempotent on its own output: CanHandle(ParseInput(s)) == true.
	ParseInput(input string) (string, error)
	// Normalize converts raw platform data (already JSON-decoded) plus
	// the canonical id into a Normalized Ticket. A missing/blank
	// identifier in raw is fatal — Normalize must raise rather than
	// return a ghost ticket.
	Normalize(raw map[string]any, id string) (*models.Ticket, error)
	// PromptTemplate is the agent-mediated fetch prompt with a single
	// {ticket_id} slot, or "" for platforms without mediated support.
	PromptTemplate() string
}

// UserInteraction is the minimal capability a provider may consult to
// disambiguate input upstream (e.g. "is PROJ-123 Jira or Linear?").
// The core's own providers never need it directly — disambiguation
// between overlapping id shapes is a CLI-layer concern per
// SPEC_FULL.md §4.1 — but it is part of the injectable dependency bag
// a provider factory may accept.
type UserInteraction interface {
	Confirm(prompt string) (bool, error)
}

// ProviderDeps bundles everything a ProviderFactory may need,
// replacing the source's runtime constructor introspection
// (SPEC_FULL.md §4.2, §9): each provider's factory takes this struct
// and picks out whichever fields it uses.
type ProviderDeps struct {
	UserInteraction UserInteraction

	// DefaultProjectKey lets the Jira provider accept bare numeric ids
	// ("123" -> "KEY-123"). Empty means bare numerics are rejected.
	DefaultProjectKey string

	// DefaultOwner/DefaultRepo let the GitHub provider accept bare
	// "#123" references. Both must be set for bare numerics to work.
	DefaultOwner string
	DefaultRepo  string

	// EnterpriseHost, if set, is the only non-github.com host GitHub
	// URLs may be parsed from.
	EnterpriseHost string

	// BaseURL is a configured fallback used to reconstruct a ticket's
	// browse URL when the raw response carries no reconstructable
	// location (e.g. Trello/Monday/Azure DevOps without a usable
	// self-link).
	BaseURL string
}

// ProviderFactory constructs a Provider from its dependency bag.
type ProviderFactory func(ProviderDeps) Provider
