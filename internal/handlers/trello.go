package handlers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// TrelloHandler fetches a card via the REST API, authenticated with
// "key"/"token" query string parameters — Trello never accepts auth
// via headers.
type TrelloHandler struct {
	rest *restClient
}

func NewTrelloHandler() *TrelloHandler {
	return &TrelloHandler{rest: newRESTClient("trello")}
}

func (h *TrelloHandler) Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error) {
	key := creds.Get("key")
	token := creds.Get("token")
	if key == "" || token == "" {
		return nil, ticketerrors.NewCredentialValidation("trello", "key and token are both required")
	}

	q := url.Values{}
	q.Set("key", key)
	q.Set("token", token)
	q.Set("fields", "all")
	q.Set("members", "true")
	q.Set("member_fields", "fullName")

	reqURL := fmt.Sprintf("https://api.trello.com/1/cards/%s?%s", id, q.Encode())
	return h.rest.get(ctx, reqURL, id, nil)
}
