package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amiad5298/ingot/internal/ticketerrors"
)

// graphqlRequest is the standard GraphQL-over-HTTP envelope.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []graphqlError `json:"errors,omitempty"`
}

// graphqlClient is the shared plumbing Linear and Monday build on:
// both speak a single-endpoint GraphQL API authenticated with a bare
// API key header (no "Bearer " prefix), and both surface "not found"
// as a null entity inside a 200 response rather than an HTTP 404.
type graphqlClient struct {
	platform string
	endpoint string
	client   *http.Client
}

func newGraphQLClient(platform, endpoint string) *graphqlClient {
	return &graphqlClient{
		platform: platform,
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultHTTPTimeoutSeconds * time.Second},
	}
}

// execute runs query/variables against the endpoint, applying
// configureReq for auth headers, and returns the decoded "data" object.
// A GraphQL-level error list or an entirely null data payload becomes
// PlatformAPI; callers are responsible for checking the specific
// entity key for a null value and mapping that to PlatformNotFound.
func (c *graphqlClient) execute(ctx context.Context, id, query string, variables map[string]any, configureReq func(*http.Request)) (map[string]any, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "encoding GraphQL request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
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
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(body, 500)), nil)
	}

	var decoded graphqlResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "decoding GraphQL response", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, decoded.Errors[0].Message, nil)
	}
	if decoded.Data == nil {
		return nil, ticketerrors.NewPlatformAPI(c.platform, id, "GraphQL response has null data", nil)
	}
	return decoded.Data, nil
}

// extractEntity pulls key out of data, translating a missing or null
// value into PlatformNotFound — the GraphQL analogue of a REST 404.
func extractEntity(data map[string]any, key, platform, id string) (map[string]any, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, ticketerrors.NewPlatformNotFound(platform, id)
	}
	entity, ok := raw.(map[string]any)
	if !ok {
		return nil, ticketerrors.NewPlatformNotFound(platform, id)
	}
	return entity, nil
}
