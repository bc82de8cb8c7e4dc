package handlers

import (
	"context"
	"net/http"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

const linearEndpoint = "https://api.linear.app/graphql"

const linearIssueQuery = `
query Issue($id: String!) {
  issue(id: $id) {
    identifier
    title
    description
    state { name type }
    assignee { name }
    labels { nodes { name } }
    createdAt
    updatedAt
    url
    priority
    team { key name }
  }
}`

// LinearHandler fetches an issue via Linear's GraphQL API,
// authenticated with a bare API key in the Authorization header (no
// "Bearer " prefix — Linear's personal API keys are self-describing
// and not OAuth bearer tokens).
type LinearHandler struct {
	gql *graphqlClient
}

func NewLinearHandler() *LinearHandler {
	return &LinearHandler{gql: newGraphQLClient("linear", linearEndpoint)}
}

func (h *LinearHandler) Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error) {
	apiKey := creds.Get("api_key")
	if apiKey == "" {
		return nil, ticketerrors.NewCredentialValidation("linear", "api_key is required")
	}

	data, err := h.gql.execute(ctx, id, linearIssueQuery, map[string]any{"id": id}, func(req *http.Request) {
		req.Header.Set("Authorization", apiKey)
	})
	if err != nil {
		return nil, err
	}
	return extractEntity(data, "issue", "linear", id)
}
