package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// JiraHandler fetches a Jira issue via the REST v2 API, authenticated
// with HTTP Basic auth using the account email as the username and an
// API token as the password (Jira Cloud's convention for service
// access — never the account password).
type JiraHandler struct {
	rest *restClient
}

func NewJiraHandler() *JiraHandler {
	return &JiraHandler{rest: newRESTClient("jira")}
}

func (h *JiraHandler) Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error) {
	baseURL := creds.Get("url")
	email := creds.Get("email")
	token := creds.Get("token")
	if baseURL == "" || email == "" || token == "" {
		return nil, ticketerrors.NewCredentialValidation("jira", "url, email, and token are all required")
	}

	url := fmt.Sprintf("%s/rest/api/2/issue/%s", trimTrailingSlash(baseURL), id)
	return h.rest.get(ctx, url, id, func(req *http.Request) {
		req.SetBasicAuth(email, token)
	})
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
