package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amiad5298/ingot/internal/ticketerrors"
)

func TestExtractEntity_NullBecomesPlatformNotFound(t *testing.T) {
	data := map[string]any{"issue": nil}
	_, err := extractEntity(data, "issue", "linear", "ENG-1")
	if ticketerrors.KindOf(err) != ticketerrors.KindPlatformNotFound {
		t.Fatalf("err kind = %v, want platform_not_found", ticketerrors.KindOf(err))
	}
}

func TestExtractEntity_MissingKeyBecomesPlatformNotFound(t *testing.T) {
	_, err := extractEntity(map[string]any{}, "issue", "linear", "ENG-1")
	if ticketerrors.KindOf(err) != ticketerrors.KindPlatformNotFound {
		t.Fatalf("err kind = %v, want platform_not_found", ticketerrors.KindOf(err))
	}
}

func TestGraphQLClient_ErrorsListBecomesPlatformAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "rate limited"}},
		})
	}))
	defer srv.Close()

	c := newGraphQLClient("linear", srv.URL)
	_, err := c.execute(context.Background(), "ENG-1", "query{issue{id}}", nil, nil)
	if ticketerrors.KindOf(err) != ticketerrors.KindPlatformAPI {
		t.Fatalf("err kind = %v, want platform_api", ticketerrors.KindOf(err))
	}
}

func TestGraphQLClient_NullDataBecomesPlatformAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": nil})
	}))
	defer srv.Close()

	c := newGraphQLClient("linear", srv.URL)
	_, err := c.execute(context.Background(), "ENG-1", "query{issue{id}}", nil, nil)
	if ticketerrors.KindOf(err) != ticketerrors.KindPlatformAPI {
		t.Fatalf("err kind = %v, want platform_api", ticketerrors.KindOf(err))
	}
}
