package fetchers_test

import (
	"context"
	"testing"
	"time"

	"github.com/amiad5298/ingot/internal/backend"
	"github.com/amiad5298/ingot/internal/fetchers"
	"github.com/amiad5298/ingot/internal/ticketerrors"
)

// fakeBackend is an in-process stand-in for backend.Backend so these
// tests don't depend on a real shell or subprocess.
type fakeBackend struct {
	reply string
	err   error
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) RunPrintQuiet(_ context.Context, _ string, _ bool, _ time.Duration) (string, error) {
	return f.reply, f.err
}

func TestAgentFetcher_Fetch(t *testing.T) {
	b := &fakeBackend{reply: `{"key": "PROJ-1", "fields": {"summary": "hi"}}`}
	f := fetchers.NewAgentFetcher("fake", b, true, 5*time.Second)

	raw, err := f.Fetch(context.Background(), fetchers.Request{
		Platform:       "jira",
		ID:             "PROJ-1",
		PromptTemplate: "Fetch {ticket_id} please",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if raw["key"] != "PROJ-1" {
		t.Errorf("key = %v", raw["key"])
	}
}

func TestAgentFetcher_NoPromptTemplateMeansUnsupported(t *testing.T) {
	b := &fakeBackend{reply: "{}"}
	f := fetchers.NewAgentFetcher("fake", b, true, time.Second)

	_, err := f.Fetch(context.Background(), fetchers.Request{Platform: "trello", ID: "abc"})
	if ticketerrors.KindOf(err) != ticketerrors.KindPlatformNotSupported {
		t.Fatalf("err kind = %v, want platform_not_supported", ticketerrors.KindOf(err))
	}
}

func TestAgentFetcher_EmptyReplyIsAgentFetchError(t *testing.T) {
	b := &fakeBackend{reply: "   "}
	f := fetchers.NewAgentFetcher("fake", b, true, time.Second)

	_, err := f.Fetch(context.Background(), fetchers.Request{
		Platform:       "jira",
		ID:             "PROJ-1",
		PromptTemplate: "Fetch {ticket_id}",
	})
	if ticketerrors.KindOf(err) != ticketerrors.KindAgentFetch {
		t.Fatalf("err kind = %v, want agent_fetch", ticketerrors.KindOf(err))
	}
}

func TestAgentFetcher_BackendNotInstalledIsAgentIntegration(t *testing.T) {
	b := &fakeBackend{err: backend.NewBackendNotInstalled("fake")}
	f := fetchers.NewAgentFetcher("fake", b, true, time.Second)

	_, err := f.Fetch(context.Background(), fetchers.Request{
		Platform:       "jira",
		ID:             "PROJ-1",
		PromptTemplate: "Fetch {ticket_id}",
	})
	if ticketerrors.KindOf(err) != ticketerrors.KindAgentIntegration {
		t.Fatalf("err kind = %v, want agent_integration", ticketerrors.KindOf(err))
	}
	if !ticketerrors.IsFallbackEligible(err) {
		t.Error("agent_integration must be fallback-eligible")
	}
}

func TestAgentFetcher_RealScriptBackend(t *testing.T) {
	// Exercises the real os/exec + context.WithTimeout path, grounded
	// on the teacher's LocalExecutor subprocess invocation.
	b := backend.NewScriptBackend("echo-json", "/bin/sh", "-c", `printf '{"key":"PROJ-9"}'`)
	f := fetchers.NewAgentFetcher("echo-json", b, true, 2*time.Second)

	raw, err := f.Fetch(context.Background(), fetchers.Request{
		Platform:       "jira",
		ID:             "PROJ-9",
		PromptTemplate: "Fetch {ticket_id}",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if raw["key"] != "PROJ-9" {
		t.Errorf("key = %v, want PROJ-9", raw["key"])
	}
}
