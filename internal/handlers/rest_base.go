package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amiad5298/ingot/internal/ticketerrors"
)

// restClient is the shared HTTP plumbing every REST handler
// (Jira/GitHub/Azure DevOps/Trello) builds on: one client, a
// GET-and-decode helper, and uniform 404/non-2xx error translation.
type restClient struct {
	platform string
	client   *http.Client
}

func newRESTClient(platform string) *restClient {
	return &restClient{
		platform: platform,
		client:   &http.Client{Timeout: defaultHTTPTimeoutSeconds * time.Second},
	}
}

// get issues a GET against rawURL, applying configureReq to attach
// auth headers/query params, and decodes a JSON object body. A 404
// response becomes PlatformNotFound; any other non-2xx becomes
// PlatformAPI carrying the response body as context.
func (c *restClient) get(ctx context.Context, rawURL, id string, configureReq func(*http.Request)) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "building request", err)
	}
	req.Header.Set("Accept", "application/json")
	if configureReq != nil {
		configureReq(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "reading response body", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ticketerrors.NewPlatformNotFound(c.platform, id)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(body, 500)), nil)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "decoding JSON response", err)
	}
	if decoded == nil {
		return nil, ticketerrors.NewPlatformNotFound(c.platform, id)
	}
	return decoded, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "...(truncated)"
}
