package ticketservice_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amiad5298/ingot/internal/cache"
	"github.com/amiad5298/ingot/internal/detector"
	"github.com/amiad5298/ingot/internal/fetchers"
	"github.com/amiad5298/ingot/internal/providers"
	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/internal/ticketservice"
	"github.com/amiad5298/ingot/pkg/models"
)

// fakeFetcher is a scripted fetchers.Fetcher: each call pops the next
// (map, error) pair off results, or repeats the last one if results is
// shorter than the number of calls.
type fakeFetcher struct {
	name    string
	mu      sync.Mutex
	results []fakeResult
	calls   int
}

type fakeResult struct {
	raw map[string]any
	err error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context, req fetchers.Request) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	r := f.results[i]
	return r.raw, r.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func jiraRegistry() *providers.Registry {
	return providers.DefaultRegistry(detector.New(), providers.ProviderDeps{})
}

func rawJiraPayload(key string) map[string]any {
	return map[string]any{
		"key":  key,
		"self": "https://acme.atlassian.net/rest/api/2/issue/10001",
		"fields": map[string]any{
			"summary":   "Fix the thing",
			"issuetype": map[string]any{"name": "Bug"},
			"status":    map[string]any{"name": "Open"},
		},
	}
}

func TestGetTicket_AgentMediatedHappyPath(t *testing.T) {
	primary := &fakeFetcher{name: "agent", results: []fakeResult{{raw: rawJiraPayload("PROJ-123")}}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, nil, c, nil, time.Hour)

	ticket, err := svc.GetTicket(context.Background(), "PROJ-123", ticketservice.Options{})
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.ID != "PROJ-123" {
		t.Errorf("ID = %q, want PROJ-123", ticket.ID)
	}
	if primary.callCount() != 1 {
		t.Errorf("primary called %d times, want 1", primary.callCount())
	}
}

func TestGetTicket_CacheHitSkipsFetcher(t *testing.T) {
	primary := &fakeFetcher{name: "agent", results: []fakeResult{{raw: rawJiraPayload("PROJ-7")}}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, nil, c, nil, time.Hour)

	ctx := context.Background()
	if _, err := svc.GetTicket(ctx, "PROJ-7", ticketservice.Options{}); err != nil {
		t.Fatalf("first GetTicket: %v", err)
	}
	if _, err := svc.GetTicket(ctx, "PROJ-7", ticketservice.Options{}); err != nil {
		t.Fatalf("second GetTicket: %v", err)
	}
	if primary.callCount() != 1 {
		t.Errorf("primary called %d times across two calls, want 1 (second should be a cache hit)", primary.callCount())
	}
}

func TestGetTicket_FallbackOnMalformedAgentReply(t *testing.T) {
	parseErr := ticketerrors.NewAgentResponseParse("jira", "no JSON object found in reply")
	primary := &fakeFetcher{name: "agent", results: []fakeResult{{err: parseErr}}}
	fallback := &fakeFetcher{name: "direct", results: []fakeResult{{raw: rawJiraPayload("PROJ-9")}}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, fallback, c, nil, time.Hour)

	ticket, err := svc.GetTicket(context.Background(), "PROJ-9", ticketservice.Options{})
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.ID != "PROJ-9" {
		t.Errorf("ID = %q, want PROJ-9", ticket.ID)
	}
	if primary.callCount() != 1 || fallback.callCount() != 1 {
		t.Errorf("primary calls=%d fallback calls=%d, want 1/1", primary.callCount(), fallback.callCount())
	}
}

func TestGetTicket_NoFallbackConfiguredPropagatesError(t *testing.T) {
	parseErr := ticketerrors.NewAgentResponseParse("jira", "no JSON object found in reply")
	primary := &fakeFetcher{name: "agent", results: []fakeResult{{err: parseErr}}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, nil, c, nil, time.Hour)

	_, err = svc.GetTicket(context.Background(), "PROJ-11", ticketservice.Options{})
	if err == nil {
		t.Fatal("expected an error with no fallback configured")
	}
	te, ok := err.(*ticketerrors.TicketError)
	if !ok || te.Kind != ticketerrors.KindAgentResponseParse {
		t.Errorf("err = %v, want a KindAgentResponseParse TicketError", err)
	}
}

func TestGetTicket_NonFallbackEligibleErrorNeverTriesFallback(t *testing.T) {
	credErr := ticketerrors.NewCredentialValidation("jira", "missing token")
	primary := &fakeFetcher{name: "agent", results: []fakeResult{{err: credErr}}}
	fallback := &fakeFetcher{name: "direct", results: []fakeResult{{raw: rawJiraPayload("PROJ-13")}}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, fallback, c, nil, time.Hour)

	_, err = svc.GetTicket(context.Background(), "PROJ-13", ticketservice.Options{})
	if err == nil {
		t.Fatal("expected the credential error to propagate")
	}
	if fallback.callCount() != 0 {
		t.Errorf("fallback called %d times, want 0 (CredentialValidation is not fallback-eligible)", fallback.callCount())
	}
}

func TestGetTicket_SkipCacheBypassesReadAndWrite(t *testing.T) {
	primary := &fakeFetcher{name: "agent", results: []fakeResult{
		{raw: rawJiraPayload("PROJ-21")},
		{raw: rawJiraPayload("PROJ-21")},
	}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, nil, c, nil, time.Hour)

	ctx := context.Background()
	if _, err := svc.GetTicket(ctx, "PROJ-21", ticketservice.Options{SkipCache: true}); err != nil {
		t.Fatalf("first GetTicket: %v", err)
	}
	if _, err := svc.GetTicket(ctx, "PROJ-21", ticketservice.Options{SkipCache: true}); err != nil {
		t.Fatalf("second GetTicket: %v", err)
	}
	if primary.callCount() != 2 {
		t.Errorf("primary called %d times with SkipCache, want 2 (no caching should happen)", primary.callCount())
	}
}

// slowFetcher blocks until released, counting concurrent/total calls —
// used to prove the singleflight de-duplication collapses concurrent
// callers for the same ticket onto a single backend fetch.
type slowFetcher struct {
	name    string
	raw     map[string]any
	release chan struct{}
	calls   atomic.Int32
}

func (f *slowFetcher) Name() string { return f.name }

func (f *slowFetcher) Fetch(ctx context.Context, req fetchers.Request) (map[string]any, error) {
	f.calls.Add(1)
	<-f.release
	return f.raw, nil
}

func TestGetTicket_ConcurrentCallersDedupeToOneFetch(t *testing.T) {
	primary := &slowFetcher{name: "agent", raw: rawJiraPayload("PROJ-99"), release: make(chan struct{})}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, nil, c, nil, time.Hour)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GetTicket(context.Background(), "PROJ-99", ticketservice.Options{})
		}(i)
	}

	// Give every goroutine a chance to reach the singleflight.Do call
	// before releasing the one in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(primary.release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	if got := primary.calls.Load(); got != 1 {
		t.Errorf("primary.Fetch called %d times across %d concurrent callers, want 1", got, n)
	}
}

func TestClose_IdempotentAcrossMultipleCalls(t *testing.T) {
	closeCalls := 0
	primary := &closingFetcher{fakeFetcher: fakeFetcher{name: "agent", results: []fakeResult{{raw: rawJiraPayload("PROJ-1")}}}, onClose: func() error {
		closeCalls++
		return nil
	}}
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatal(err)
	}
	svc := ticketservice.New(jiraRegistry(), primary, nil, c, nil, time.Hour)

	ctx := context.Background()
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if closeCalls != 1 {
		t.Errorf("underlying Close invoked %d times, want 1", closeCalls)
	}
}

type closingFetcher struct {
	fakeFetcher
	onClose func() error
}

func (f *closingFetcher) Close() error { return f.onClose() }
