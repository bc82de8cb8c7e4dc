package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

const mondayEndpoint = "https://api.monday.com/v2"

const mondayItemQuery = `
query Item($ids: [ID!]) {
  items (ids: $ids) {
    id
    name
    board { id name }
    column_values { id type text }
    updated_at
  }
}`

// MondayHandler fetches a pulse (item) via Monday.com's GraphQL API,
// authenticated with a bare API key in the Authorization header.
// Monday has no REST "get single item" verb; every read goes through
// the items() query filtered by id.
type MondayHandler struct {
	gql *graphqlClient
}

func NewMondayHandler() *MondayHandler {
	return &MondayHandler{gql: newGraphQLClient("monday", mondayEndpoint)}
}

func (h *MondayHandler) Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error) {
	apiKey := creds.Get("api_key")
	if apiKey == "" {
		return nil, ticketerrors.NewCredentialValidation("monday", "api_key is required")
	}

	_, pulseID, ok := strings.Cut(id, "/")
	if !ok {
		return nil, ticketerrors.NewTicketIDFormat("monday", id, "expected board_id/pulse_id")
	}

	data, err := h.gql.execute(ctx, id, mondayItemQuery, map[string]any{"ids": []string{pulseID}}, func(req *http.Request) {
		req.Header.Set("Authorization", apiKey)
		req.Header.Set("API-Version", "2024-01")
	})
	if err != nil {
		return nil, err
	}

	items, ok := data["items"].([]any)
	if !ok || len(items) == 0 {
		return nil, ticketerrors.NewPlatformNotFound("monday", id)
	}
	item, ok := items[0].(map[string]any)
	if !ok {
		return nil, ticketerrors.NewPlatformNotFound("monday", id)
	}
	return item, nil
}
