package fetchers

import (
	"context"
	"strings"
	"time"

	"github.com/amiad5298/ingot/internal/backend"
	"github.com/amiad5298/ingot/internal/ticketerrors"
)

// AgentFetcher drives a single AI coding backend subprocess to fetch a
// ticket on the service's behalf: render the platform's prompt, run
// the backend, and extract the JSON object from its reply.
//
// SPEC_FULL.md §4.5/§9 redesigns the source's three separate
// subclasses (AuggieFetcher/ClaudeFetcher/CursorFetcher) into this one
// struct parametrized by name and PassTimeoutToBackend — Cursor's CLI
// does not accept a timeout flag of its own and relies entirely on
// context cancellation, while Auggie and Claude both forward an
// explicit timeout into the subprocess invocation.
type AgentFetcher struct {
	name                 string
	backend              backend.Backend
	passTimeoutToBackend bool
	timeout              time.Duration
}

// NewAgentFetcher builds a fetcher for b, named name, that forwards
// timeout to the backend call only when passTimeoutToBackend is true
// (Cursor's CLI has no timeout flag; context cancellation alone bounds
// the call for it).
func NewAgentFetcher(name string, b backend.Backend, passTimeoutToBackend bool, timeout time.Duration) *AgentFetcher {
	return &AgentFetcher{name: name, backend: b, passTimeoutToBackend: passTimeoutToBackend, timeout: timeout}
}

// NewAuggieFetcher wires an AgentFetcher to the auggie CLI.
func NewAuggieFetcher(timeout time.Duration) *AgentFetcher {
	b := backend.NewScriptBackend("auggie", "auggie", "--print", "--quiet")
	return NewAgentFetcher("auggie", b, true, timeout)
}

// NewClaudeFetcher wires an AgentFetcher to the claude CLI.
func NewClaudeFetcher(timeout time.Duration) *AgentFetcher {
	b := backend.NewScriptBackend("claude", "claude", "--print")
	return NewAgentFetcher("claude", b, true, timeout)
}

// NewCursorFetcher wires an AgentFetcher to the cursor-agent CLI.
// Cursor's CLI has no timeout flag, so the backend call never receives
// one — only ctx's own deadline bounds it.
func NewCursorFetcher(timeout time.Duration) *AgentFetcher {
	b := backend.NewScriptBackend("cursor", "cursor-agent", "--print")
	return NewAgentFetcher("cursor", b, false, timeout)
}

func (f *AgentFetcher) Name() string { return f.name }

func (f *AgentFetcher) Fetch(ctx context.Context, req Request) (map[string]any, error) {
	prompt, err := RenderPrompt(string(req.Platform), req.PromptTemplate, req.ID)
	if err != nil {
		return nil, err
	}

	backendTimeout := time.Duration(0)
	if f.passTimeoutToBackend {
		backendTimeout = f.timeout
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if f.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	reply, err := f.backend.RunPrintQuiet(runCtx, prompt, true, backendTimeout)
	if err != nil {
		return nil, translateBackendError(string(req.Platform), f.name, err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, ticketerrors.NewAgentFetch(string(req.Platform), f.name+" returned an empty reply", nil)
	}

	return ExtractJSON(string(req.Platform), reply)
}

// translateBackendError maps the backend's kind-tagged Error into the
// core's taxonomy: configuration/install problems are not worth
// retrying against another backend (AgentIntegration, not
// fallback-eligible on their own merits beyond "try the next
// mechanism"), while timeouts and rate limits are transient fetch
// failures (AgentFetch).
func translateBackendError(platform, backendName string, err error) error {
	be, ok := err.(*backend.Error)
	if !ok {
		return ticketerrors.NewAgentFetch(platform, backendName+" call failed", err)
	}
	switch be.Kind {
	case "not_installed", "not_configured":
		return ticketerrors.NewAgentIntegration(platform, be.Message, err)
	default:
		return ticketerrors.NewAgentFetch(platform, be.Message, err)
	}
}
