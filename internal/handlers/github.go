package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// GitHubHandler fetches an issue via the REST v3 API, authenticated
// with a bearer personal-access or installation token and the
// versioned "application/vnd.github+json" Accept header GitHub's API
// requires for predictable response shapes.
type GitHubHandler struct {
	rest *restClient
}

func NewGitHubHandler() *GitHubHandler {
	return &GitHubHandler{rest: newRESTClient("github")}
}

func (h *GitHubHandler) Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error) {
	token := creds.Get("token")
	if token == "" {
		return nil, ticketerrors.NewCredentialValidation("github", "token is required")
	}

	owner, repo, number, err := splitGitHubID(id)
	if err != nil {
		return nil, err
	}

	host := creds.Get("enterprise_host")
	apiBase := "https://api.github.com"
	if host != "" {
		apiBase = fmt.Sprintf("https://%s/api/v3", host)
	}
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%s", apiBase, owner, repo, number)

	return h.rest.get(ctx, url, id, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	})
}

func splitGitHubID(id string) (owner, repo, number string, err error) {
	ownerRepo, num, ok := strings.Cut(id, "#")
	if !ok {
		return "", "", "", ticketerrors.NewTicketIDFormat("github", id, "expected owner/repo#number")
	}
	owner, repo, ok = strings.Cut(ownerRepo, "/")
	if !ok {
		return "", "", "", ticketerrors.NewTicketIDFormat("github", id, "expected owner/repo#number")
	}
	return owner, repo, num, nil
}
