// Package handlers implements the per-platform Platform API Handler:
// the thin, credential-aware HTTP client each Direct Fetcher delegates
// to. A Handler never normalizes — it returns the raw, JSON-decoded
// platform response for the provider's Normalize to consume.
package handlers

import (
	"context"

	"github.com/amiad5298/ingot/pkg/models"
)

// Handler fetches the raw representation of a single ticket from one
// platform's REST or GraphQL API.
type Handler interface {
	// Fetch retrieves ticket id using creds for authentication. A
	// missing/404/null ticket must surface as ticketerrors
	// PlatformNotFound, never as a bare nil map.
	Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error)
}

// defaultHTTPTimeoutSeconds bounds every handler's outbound request
// when the caller's context carries no earlier deadline.
const defaultHTTPTimeoutSeconds = 30
