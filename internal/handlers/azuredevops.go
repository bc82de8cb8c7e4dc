package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

// azureAPIVersion pins the work item REST API shape this handler
// decodes against.
const azureAPIVersion = "7.1"

// AzureDevOpsHandler fetches a work item via the REST API,
// authenticated with HTTP Basic auth using an empty username and a
// Personal Access Token as the password — Azure DevOps's documented
// PAT convention.
type AzureDevOpsHandler struct {
	rest *restClient
}

func NewAzureDevOpsHandler() *AzureDevOpsHandler {
	return &AzureDevOpsHandler{rest: newRESTClient("azure_devops")}
}

func (h *AzureDevOpsHandler) Fetch(ctx context.Context, creds *models.Credentials, id string) (map[string]any, error) {
	org := creds.Get("organization")
	pat := creds.Get("pat")
	if org == "" || pat == "" {
		return nil, ticketerrors.NewCredentialValidation("azure_devops", "organization and pat are both required")
	}

	_, workItemID, ok := strings.Cut(id, "#")
	if !ok {
		return nil, ticketerrors.NewTicketIDFormat("azure_devops", id, "expected project#id")
	}

	url := fmt.Sprintf("https://dev.azure.com/%s/_apis/wit/workitems/%s?api-version=%s&$expand=all", org, workItemID, azureAPIVersion)
	return h.rest.get(ctx, url, id, func(req *http.Request) {
		req.SetBasicAuth("", pat)
	})
}
