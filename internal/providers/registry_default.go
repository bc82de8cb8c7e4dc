package providers

import (
	"github.com/amiad5298/ingot/internal/detector"
	"github.com/amiad5298/ingot/pkg/models"
)

// DefaultRegistry builds a Registry with every built-in Issue-Tracker
// Provider's factory registered against d and deps applied. This is
// the composition root every real caller (ticketservice.New, cmd/
// ticketctl) goes through; tests that need a subset construct a bare
// NewRegistry and Register selectively instead.
func DefaultRegistry(d *detector.Detector, deps ProviderDeps) *Registry {
	r := NewRegistry(d)
	r.SetConfig(deps)
	r.Register(models.PlatformJira, NewJiraProvider)
	r.Register(models.PlatformGitHub, NewGitHubProvider)
	r.Register(models.PlatformLinear, NewLinearProvider)
	r.Register(models.PlatformAzureDevOps, NewAzureDevOpsProvider)
	r.Register(models.PlatformMonday, NewMondayProvider)
	r.Register(models.PlatformTrello, NewTrelloProvider)
	return r
}
